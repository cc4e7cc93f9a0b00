package models

import (
	"strings"
	"time"
)

// Default values used when a source cannot provide a field.
const (
	NotAvailable = "N/A"

	SourceSerpAPI    = "Indeed (via SerpAPI)"
	SourceOnlineJobs = "OnlineJobs.ph"
)

// Job is the canonical, source-independent listing.
type Job struct {
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location"`
	Description string     `json:"description"`
	Salary      string     `json:"salary"`
	Source      string     `json:"source"`
	Link        string     `json:"link"`
	PostedAt    *time.Time `json:"posted_at"`
	ScrapedAt   time.Time  `json:"scraped_at"`
	Query       string     `json:"query,omitempty"`
}

// IdentityKey is the case-folded (title, company, location) triple.
type IdentityKey struct {
	Title    string
	Company  string
	Location string
}

// Key returns the identity key of the job. Stored text keeps its casing.
func (j Job) Key() IdentityKey {
	return IdentityKey{
		Title:    strings.ToLower(j.Title),
		Company:  strings.ToLower(j.Company),
		Location: strings.ToLower(j.Location),
	}
}

func (k IdentityKey) String() string {
	return k.Title + "::" + k.Company + "::" + k.Location
}
