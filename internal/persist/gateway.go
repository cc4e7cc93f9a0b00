// Package persist writes deduplicated jobs to a store, skipping rows whose
// identity already exists.
package persist

import (
	"context"
	"fmt"

	"github.com/jimezsa/jobtrackr/internal/models"
	"github.com/jimezsa/jobtrackr/internal/store"
	"github.com/rs/zerolog"
)

// Outcome is the per-record result of a persistence attempt.
type Outcome int

const (
	OutcomeInserted Outcome = iota + 1
	OutcomeDuplicate
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInserted:
		return "inserted"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result pairs a job with its outcome. Err is set only for OutcomeFailed.
type Result struct {
	Job     models.Job
	Outcome Outcome
	Row     store.Row
	Err     error
}

// Summary aggregates outcomes.
type Summary struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

func (s *Summary) add(o Outcome) {
	switch o {
	case OutcomeInserted:
		s.Inserted++
	case OutcomeDuplicate:
		s.Skipped++
	case OutcomeFailed:
		s.Failed++
	}
}

// Gateway runs the existence check then insert for each job. The two steps
// are not atomic: concurrent runs against one store may both insert a key.
type Gateway struct {
	store  store.Store
	logger zerolog.Logger
}

func NewGateway(s store.Store, logger zerolog.Logger) *Gateway {
	return &Gateway{store: s, logger: logger.With().Str("component", "persist").Logger()}
}

// Save processes one job. Errors are returned in the Result, never raised.
func (g *Gateway) Save(ctx context.Context, job models.Job) Result {
	log := g.logger.With().Str("title", job.Title).Str("company", job.Company).Logger()

	exists, err := g.store.Exists(ctx, job.Key())
	if err != nil {
		log.Error().Err(err).Msg("existence check failed")
		return Result{Job: job, Outcome: OutcomeFailed, Err: fmt.Errorf("exists: %w", err)}
	}
	if exists {
		log.Info().Msg("duplicate skipped")
		return Result{Job: job, Outcome: OutcomeDuplicate}
	}

	row, err := g.store.Insert(ctx, store.RowFromJob(job))
	if err != nil {
		log.Error().Err(err).Msg("insert failed")
		return Result{Job: job, Outcome: OutcomeFailed, Err: fmt.Errorf("insert: %w", err)}
	}
	log.Info().Int64("id", row.ID).Msg("inserted job")
	return Result{Job: job, Outcome: OutcomeInserted, Row: row}
}

// SaveAll processes jobs in order. A failed record does not stop the rest;
// only a cancelled context does, and then ctx.Err() is returned alongside
// the results gathered so far.
func (g *Gateway) SaveAll(ctx context.Context, jobs []models.Job) ([]Result, Summary, error) {
	results := make([]Result, 0, len(jobs))
	var summary Summary
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return results, summary, err
		}
		res := g.Save(ctx, job)
		summary.add(res.Outcome)
		results = append(results, res)
	}
	return results, summary, nil
}
