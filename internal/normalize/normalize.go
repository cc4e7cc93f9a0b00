// Package normalize maps raw adapter listings onto the canonical Job.
package normalize

import (
	"strings"
	"sync"
	"time"

	"github.com/jimezsa/jobtrackr/internal/models"
)

// Normalizer converts raw listings. It stamps ScrapedAt at conversion time
// and never hands out an instant earlier than the previous one.
type Normalizer struct {
	now  func() time.Time
	mu   sync.Mutex
	last time.Time
}

func New() *Normalizer {
	return &Normalizer{now: time.Now}
}

// NewWithClock is used by tests to pin the clock.
func NewWithClock(now func() time.Time) *Normalizer {
	return &Normalizer{now: now}
}

// Result is one normalized job plus how its posted time was resolved.
type Result struct {
	Job    models.Job
	Posted models.PostedAt
}

// Normalize converts raw into a Job. The second return is false when raw
// carries no variant, which only happens on programmer error.
func (n *Normalizer) Normalize(raw models.RawJob) (Result, bool) {
	scrapedAt := n.stamp()

	switch {
	case raw.Kind == models.KindAPI && raw.API != nil:
		return n.fromAPI(*raw.API, scrapedAt), true
	case raw.Kind == models.KindHTML && raw.HTML != nil:
		return n.fromHTML(*raw.HTML, scrapedAt), true
	default:
		return Result{}, false
	}
}

// All normalizes a slice in order, tagging each job with query.
func (n *Normalizer) All(raws []models.RawJob, query string) []Result {
	out := make([]Result, 0, len(raws))
	for _, raw := range raws {
		res, ok := n.Normalize(raw)
		if !ok {
			continue
		}
		res.Job.Query = query
		out = append(out, res)
	}
	return out
}

func (n *Normalizer) fromAPI(l models.APIListing, scrapedAt time.Time) Result {
	job := models.Job{
		Title:       orNA(l.Title),
		Company:     orNA(l.Company),
		Location:    orNA(l.Location),
		Description: strings.TrimSpace(l.Description),
		Salary:      orNA(l.Salary),
		Source:      models.SourceSerpAPI,
		ScrapedAt:   scrapedAt,
	}
	job.Link = firstLink(l.ApplyOptions)
	if job.Link == "" {
		job.Link = FallbackLink(job.Title, job.Company)
	}

	posted := ParsePostedAt(l.PostedRaw, scrapedAt)
	job.PostedAt = posted.Ptr()
	return Result{Job: job, Posted: posted}
}

func (n *Normalizer) fromHTML(l models.HTMLListing, scrapedAt time.Time) Result {
	job := models.Job{
		Title:       orNA(l.Title),
		Company:     orNA(l.Company),
		Location:    orNA(l.Location),
		Description: strings.TrimSpace(l.Description),
		Salary:      orNA(l.Salary),
		Source:      models.SourceOnlineJobs,
		Link:        strings.TrimSpace(l.Link),
		ScrapedAt:   scrapedAt,
	}

	posted := ParsePostedAt(l.PostedRaw, scrapedAt)
	job.PostedAt = posted.Ptr()
	return Result{Job: job, Posted: posted}
}

func (n *Normalizer) stamp() time.Time {
	n.mu.Lock()
	defer n.mu.Unlock()

	ts := n.now().UTC()
	if ts.Before(n.last) {
		ts = n.last
	}
	n.last = ts
	return ts
}

func orNA(value string) string {
	if value = strings.TrimSpace(value); value != "" {
		return value
	}
	return models.NotAvailable
}

func firstLink(options []string) string {
	for _, option := range options {
		if option = strings.TrimSpace(option); option != "" {
			return option
		}
	}
	return ""
}
