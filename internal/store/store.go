// Package store is the persistence boundary: a keyed record store that
// answers case-insensitive identity lookups and accepts single-row inserts.
package store

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/jimezsa/jobtrackr/internal/models"
)

const (
	KindPostgres = "postgres"
	KindSupabase = "supabase"
	KindMemory   = "memory"

	DefaultTable = "jobs"
)

// Store is implemented by every backend.
type Store interface {
	// Exists reports whether a row matches key on title, company and
	// location, compared case-insensitively.
	Exists(ctx context.Context, key models.IdentityKey) (bool, error)
	// Insert creates one row and returns it as stored.
	Insert(ctx context.Context, row Row) (Row, error)
}

// Row is the wire shape of a job. Timestamps travel as RFC 3339 text.
type Row struct {
	ID          int64   `json:"id,omitempty"`
	Title       string  `json:"title"`
	Company     string  `json:"company"`
	Location    string  `json:"location"`
	Description string  `json:"description"`
	Salary      string  `json:"salary"`
	Source      string  `json:"source"`
	Link        string  `json:"link"`
	PostedAt    *string `json:"posted_at"`
	ScrapedAt   string  `json:"scraped_at"`
	Query       string  `json:"query"`
}

// RowFromJob serializes a job for insertion.
func RowFromJob(job models.Job) Row {
	row := Row{
		Title:       job.Title,
		Company:     job.Company,
		Location:    job.Location,
		Description: job.Description,
		Salary:      job.Salary,
		Source:      job.Source,
		Link:        job.Link,
		ScrapedAt:   job.ScrapedAt.UTC().Format(time.RFC3339),
		Query:       job.Query,
	}
	if job.PostedAt != nil {
		posted := job.PostedAt.UTC().Format(time.RFC3339)
		row.PostedAt = &posted
	}
	return row
}

// Key returns the identity key of a stored row.
func (r Row) Key() models.IdentityKey {
	return models.Job{Title: r.Title, Company: r.Company, Location: r.Location}.Key()
}

var tableName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

func validTable(name string) (string, error) {
	if name == "" {
		return DefaultTable, nil
	}
	if !tableName.MatchString(name) {
		return "", fmt.Errorf("invalid table name %q", name)
	}
	return name, nil
}
