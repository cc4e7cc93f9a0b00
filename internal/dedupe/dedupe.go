// Package dedupe collapses job batches to one record per identity key.
package dedupe

import "github.com/jimezsa/jobtrackr/internal/models"

// Stats captures the outcome of a dedupe pass.
type Stats struct {
	Input  int
	Unique int
}

// Dropped returns the number of records removed as duplicates.
func (s Stats) Dropped() int {
	return s.Input - s.Unique
}

// DiffStats captures stats for filtering a batch against history.
type DiffStats struct {
	TotalNew  int
	TotalSeen int
	Unseen    int
}

// Jobs keeps the first job seen for each identity key, in input order.
// Stored text is untouched; only the key is case-folded.
func Jobs(jobs []models.Job) ([]models.Job, Stats) {
	seen := make(map[models.IdentityKey]struct{}, len(jobs))
	out := make([]models.Job, 0, len(jobs))
	for _, job := range jobs {
		key := job.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, job)
	}
	return out, Stats{Input: len(jobs), Unique: len(out)}
}

// Diff returns the deduplicated jobs of newJobs whose key is absent from seenJobs.
func Diff(newJobs []models.Job, seenJobs []models.Job) ([]models.Job, DiffStats) {
	stats := DiffStats{
		TotalNew:  len(newJobs),
		TotalSeen: len(seenJobs),
	}

	seenKeys := make(map[models.IdentityKey]struct{}, len(seenJobs))
	for _, job := range seenJobs {
		seenKeys[job.Key()] = struct{}{}
	}

	unique, _ := Jobs(newJobs)
	unseen := make([]models.Job, 0, len(unique))
	for _, job := range unique {
		if _, exists := seenKeys[job.Key()]; exists {
			continue
		}
		unseen = append(unseen, job)
	}

	stats.Unseen = len(unseen)
	return unseen, stats
}
