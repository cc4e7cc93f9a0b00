package normalize

import (
	"net/url"
	"testing"
	"time"

	"github.com/jimezsa/jobtrackr/internal/models"
)

func fixedClock(times ...time.Time) func() time.Time {
	i := 0
	return func() time.Time {
		ts := times[i]
		if i < len(times)-1 {
			i++
		}
		return ts
	}
}

func TestNormalizeAPIListing(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	n := NewWithClock(fixedClock(now))

	res, ok := n.Normalize(models.NewAPIJob(models.APIListing{
		Title:        "Data Engineer",
		Company:      "Acme",
		Location:     "Manila",
		Description:  " Build pipelines. ",
		Salary:       "PHP 100K",
		PostedRaw:    "2 days ago",
		ApplyOptions: []string{"", "https://apply.example.com/1", "https://apply.example.com/2"},
	}))
	if !ok {
		t.Fatalf("Normalize() ok = false")
	}

	job := res.Job
	if job.Source != models.SourceSerpAPI {
		t.Fatalf("Source = %q", job.Source)
	}
	if job.Link != "https://apply.example.com/1" {
		t.Fatalf("Link = %q, want first apply option", job.Link)
	}
	if job.Description != "Build pipelines." {
		t.Fatalf("Description = %q", job.Description)
	}
	if job.PostedAt == nil || !job.PostedAt.Equal(now.AddDate(0, 0, -2)) {
		t.Fatalf("PostedAt = %v", job.PostedAt)
	}
	if !job.ScrapedAt.Equal(now) {
		t.Fatalf("ScrapedAt = %v, want %v", job.ScrapedAt, now)
	}
}

func TestNormalizeDefaults(t *testing.T) {
	n := New()

	res, _ := n.Normalize(models.NewAPIJob(models.APIListing{}))
	job := res.Job
	if job.Title != models.NotAvailable || job.Company != models.NotAvailable || job.Location != models.NotAvailable {
		t.Fatalf("expected N/A identity fields, got %+v", job)
	}
	if job.Salary != models.NotAvailable {
		t.Fatalf("Salary = %q", job.Salary)
	}
	if job.Description != "" {
		t.Fatalf("Description = %q", job.Description)
	}
	if job.PostedAt != nil || res.Posted.Status != models.FieldAbsent {
		t.Fatalf("expected absent posted time, got %+v", res.Posted)
	}

	res, _ = n.Normalize(models.NewHTMLJob(models.HTMLListing{Title: "  ", PostedRaw: "garbage"}))
	if res.Job.Title != models.NotAvailable {
		t.Fatalf("Title = %q", res.Job.Title)
	}
	if res.Job.Link != "" {
		t.Fatalf("HTML link without href should stay empty, got %q", res.Job.Link)
	}
	if res.Job.PostedAt != nil || res.Posted.Status != models.FieldMalformed {
		t.Fatalf("expected malformed posted time, got %+v", res.Posted)
	}
	if res.Job.Source != models.SourceOnlineJobs {
		t.Fatalf("Source = %q", res.Job.Source)
	}
}

func TestNormalizeFallbackLinkIsDeterministic(t *testing.T) {
	n := New()
	raw := models.NewAPIJob(models.APIListing{Title: "Data Analyst", Company: "Beta Corp"})

	first, _ := n.Normalize(raw)
	second, _ := n.Normalize(raw)

	want := FallbackLink("Data Analyst", "Beta Corp")
	if first.Job.Link != want || second.Job.Link != want {
		t.Fatalf("links = %q, %q, want %q", first.Job.Link, second.Job.Link, want)
	}

	u, err := url.Parse(want)
	if err != nil {
		t.Fatalf("fallback link is not a URL: %v", err)
	}
	if u.Host != "www.google.com" {
		t.Fatalf("host = %q", u.Host)
	}
	if q := u.Query().Get("q"); q != "Data Analyst Beta Corp site:indeed.com" {
		t.Fatalf("q = %q", q)
	}
}

func TestNormalizeScrapedAtMonotonic(t *testing.T) {
	base := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	n := NewWithClock(fixedClock(base, base.Add(-time.Minute), base.Add(time.Second)))

	raws := []models.RawJob{
		models.NewHTMLJob(models.HTMLListing{Title: "a"}),
		models.NewHTMLJob(models.HTMLListing{Title: "b"}),
		models.NewHTMLJob(models.HTMLListing{Title: "c"}),
	}
	results := n.All(raws, "data engineer")
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Job.ScrapedAt.Before(results[i-1].Job.ScrapedAt) {
			t.Fatalf("ScrapedAt went backwards at %d", i)
		}
	}
	for _, res := range results {
		if res.Job.Query != "data engineer" {
			t.Fatalf("Query = %q", res.Job.Query)
		}
	}
}

func TestNormalizeRejectsEmptyVariant(t *testing.T) {
	if _, ok := New().Normalize(models.RawJob{Kind: models.KindAPI}); ok {
		t.Fatalf("expected ok = false for missing variant")
	}
}
