package dedupe

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jimezsa/jobtrackr/internal/models"
)

// LoadBatch reads an exported JSON array of jobs. Records are brought back
// to the shape the normalizer produces: identity fields trimmed and
// defaulted to "N/A", timestamps in UTC. That keeps keys of a hand-edited
// or foreign export comparable with freshly fetched jobs.
func LoadBatch(path string) ([]models.Job, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("batch path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	jobs := []models.Job{}
	if len(strings.TrimSpace(string(data))) == 0 {
		return jobs, nil
	}
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("decode batch %s: %w", path, err)
	}
	if jobs == nil {
		return []models.Job{}, nil
	}
	for i := range jobs {
		canonicalize(&jobs[i])
	}
	return jobs, nil
}

// LoadHistory is LoadBatch with a missing file read as an empty history.
func LoadHistory(path string) ([]models.Job, error) {
	jobs, err := LoadBatch(path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.Job{}, nil
	}
	return jobs, err
}

// SaveBatch writes jobs as indented JSON with UTC timestamps.
func SaveBatch(path string, jobs []models.Job) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("batch path is required")
	}

	out := make([]models.Job, len(jobs))
	for i, job := range jobs {
		canonicalize(&job)
		out[i] = job
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func canonicalize(job *models.Job) {
	job.Title = orNotAvailable(job.Title)
	job.Company = orNotAvailable(job.Company)
	job.Location = orNotAvailable(job.Location)
	if !job.ScrapedAt.IsZero() {
		job.ScrapedAt = job.ScrapedAt.UTC()
	}
	if job.PostedAt != nil {
		posted := job.PostedAt.UTC()
		job.PostedAt = &posted
	}
}

func orNotAvailable(value string) string {
	if value = strings.TrimSpace(value); value != "" {
		return value
	}
	return models.NotAvailable
}
