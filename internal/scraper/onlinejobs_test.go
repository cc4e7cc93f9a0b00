package scraper

import (
	"context"
	"errors"
	"testing"

	"github.com/jimezsa/jobtrackr/internal/models"
)

const onlineJobsFixture = `
<html><body>
  <div class="job-item" data-posted="2024-05-01 10:30:00">
    <div class="job-title"><a href="/jobseekers/job/Data-Engineer-123">  Data Engineer </a></div>
    <div class="job-employer">Acme Outsourcing</div>
    <div class="job-desc">Maintain ETL
      jobs.</div>
    <div class="job-salary">$800/month</div>
  </div>
  <div class="job-item">
    <div class="job-title"><span>No anchor</span></div>
  </div>
  <div class="job-item" data-posted="yesterday">
    <div class="job-title"><a href="/jobseekers/job/3">Third</a></div>
  </div>
</body></html>`

func TestParseOnlineJobs(t *testing.T) {
	doc := mustDoc(t, onlineJobsFixture)
	jobs := parseOnlineJobs(doc, onlineJobsOrigin, 10)
	if len(jobs) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(jobs))
	}

	first := jobs[0].HTML
	if jobs[0].Kind != models.KindHTML || first == nil {
		t.Fatalf("expected HTML variant, got %+v", jobs[0])
	}
	want := models.HTMLListing{
		Title:       "Data Engineer",
		Company:     "Acme Outsourcing",
		Location:    "Remote (OnlineJobs.ph)",
		Description: "Maintain ETL jobs.",
		Salary:      "$800/month",
		PostedRaw:   "2024-05-01 10:30:00",
		Link:        "https://www.onlinejobs.ph/jobseekers/job/Data-Engineer-123",
	}
	if *first != want {
		t.Fatalf("first = %+v, want %+v", *first, want)
	}

	second := jobs[1].HTML
	if second.Title != models.NotAvailable || second.Company != models.NotAvailable || second.Salary != models.NotAvailable {
		t.Fatalf("expected N/A defaults, got %+v", second)
	}
	if second.Description != "" || second.Link != "" || second.PostedRaw != "" {
		t.Fatalf("expected empty defaults, got %+v", second)
	}
	if second.Location != onlineJobsLocation {
		t.Fatalf("location = %q", second.Location)
	}
}

func TestParseOnlineJobsLimit(t *testing.T) {
	doc := mustDoc(t, onlineJobsFixture)
	if got := parseOnlineJobs(doc, onlineJobsOrigin, 2); len(got) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(got))
	}
}

func TestOnlineJobsSearch(t *testing.T) {
	doer := &stubDoer{body: onlineJobsFixture}
	src := NewOnlineJobs(doer)

	jobs, err := src.Search(context.Background(), models.SearchParams{Query: "data engineer", Limit: 1})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}

	req := doer.requests[0]
	if got := req.URL.String(); got != "https://www.onlinejobs.ph/jobseekers/jobsearch?jobkeyword=data+engineer" {
		t.Fatalf("url = %q", got)
	}
	if ua := req.Header.Get("User-Agent"); ua == "" {
		t.Fatalf("expected user agent header")
	}
}

func TestOnlineJobsNonSuccessIsRecoverable(t *testing.T) {
	src := NewOnlineJobs(&stubDoer{status: 503})

	jobs, err := src.Search(context.Background(), models.SearchParams{Query: "x", Limit: 5})
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) || fetchErr.Status != 503 {
		t.Fatalf("Search() error = %v, want FetchError 503", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("expected no jobs, got %d", len(jobs))
	}
}
