// Package pipeline drives a run: fetch every query from every source,
// normalize, dedupe once, optionally write the debug report, then persist.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jimezsa/jobtrackr/internal/dedupe"
	"github.com/jimezsa/jobtrackr/internal/export"
	"github.com/jimezsa/jobtrackr/internal/models"
	"github.com/jimezsa/jobtrackr/internal/normalize"
	"github.com/jimezsa/jobtrackr/internal/persist"
	"github.com/jimezsa/jobtrackr/internal/scraper"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultLocation = "Philippines"
	DefaultLimit    = 10
	DefaultDelay    = time.Second
)

type Options struct {
	Queries  []string
	Location string
	// Limits maps a source name to its per-call limit. Missing entries use
	// DefaultLimit.
	Limits     map[string]int
	Delay      time.Duration
	Parallel   int
	ReportPath string
}

func (o Options) limitFor(source string) int {
	if limit, ok := o.Limits[source]; ok && limit > 0 {
		return limit
	}
	return DefaultLimit
}

// Batch is the deduplicated output of the fetch stage.
type Batch struct {
	Jobs          []models.Job
	Fetched       int
	FetchFailures int
	Malformed     int
}

type Summary struct {
	RunID             string `json:"run_id"`
	Queries           int    `json:"queries"`
	Fetched           int    `json:"fetched"`
	Unique            int    `json:"unique"`
	Inserted          int    `json:"inserted"`
	Skipped           int    `json:"skipped"`
	Failed            int    `json:"failed"`
	FetchFailures     int    `json:"fetch_failures"`
	// Listings whose posted time could not be parsed; stored as null.
	MalformedPostedAt int    `json:"malformed_posted_at"`
}

type Orchestrator struct {
	sources    []scraper.Source
	normalizer *normalize.Normalizer
	gateway    *persist.Gateway
	logger     zerolog.Logger
	opts       Options

	newRunID func() string
	sleep    func(context.Context, time.Duration) error
}

// New builds an orchestrator. gateway may be nil when only Collect is used.
func New(sources []scraper.Source, normalizer *normalize.Normalizer, gateway *persist.Gateway, logger zerolog.Logger, opts Options) *Orchestrator {
	if normalizer == nil {
		normalizer = normalize.New()
	}
	if opts.Location == "" {
		opts.Location = DefaultLocation
	}
	if opts.Delay < 0 {
		opts.Delay = 0
	}
	return &Orchestrator{
		sources:    sources,
		normalizer: normalizer,
		gateway:    gateway,
		logger:     logger,
		opts:       opts,
		newRunID:   func() string { return uuid.NewString() },
		sleep:      sleepContext,
	}
}

// Run executes the full pipeline. Only context cancellation aborts it; fetch
// and persistence failures are counted in the summary.
func (o *Orchestrator) Run(ctx context.Context) (Summary, error) {
	if o.gateway == nil {
		return Summary{}, errors.New("pipeline: no persistence gateway configured")
	}
	summary := Summary{RunID: o.newRunID(), Queries: len(o.opts.Queries)}
	log := o.logger.With().Str("run_id", summary.RunID).Logger()
	log.Info().Int("queries", summary.Queries).Int("sources", len(o.sources)).Msg("run started")

	batch, err := o.collect(ctx, log)
	summary.Fetched = batch.Fetched
	summary.Unique = len(batch.Jobs)
	summary.FetchFailures = batch.FetchFailures
	summary.MalformedPostedAt = batch.Malformed
	if err != nil {
		return summary, err
	}

	if o.opts.ReportPath != "" {
		if err := export.WriteReportFile(o.opts.ReportPath, batch.Jobs); err != nil {
			log.Warn().Err(err).Str("path", o.opts.ReportPath).Msg("debug report failed")
		} else {
			log.Info().Str("path", o.opts.ReportPath).Int("jobs", len(batch.Jobs)).Msg("debug report written")
		}
	}

	_, saved, err := o.gateway.SaveAll(ctx, batch.Jobs)
	summary.Inserted = saved.Inserted
	summary.Skipped = saved.Skipped
	summary.Failed = saved.Failed
	if err != nil {
		return summary, err
	}

	log.Info().
		Int("fetched", summary.Fetched).
		Int("unique", summary.Unique).
		Int("inserted", summary.Inserted).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Int("fetch_failures", summary.FetchFailures).
		Int("malformed_posted_at", summary.MalformedPostedAt).
		Msg("run finished")
	return summary, nil
}

// Collect runs the fetch, normalize and dedupe stages without persisting.
func (o *Orchestrator) Collect(ctx context.Context) (Batch, error) {
	return o.collect(ctx, o.logger)
}

type fetchResult struct {
	source string
	raws   []models.RawJob
	err    error
}

func (o *Orchestrator) collect(ctx context.Context, log zerolog.Logger) (Batch, error) {
	var (
		perQuery [][]fetchResult
		err      error
	)
	if o.opts.Parallel > 1 && len(o.opts.Queries) > 1 {
		perQuery, err = o.fetchParallel(ctx)
	} else {
		perQuery, err = o.fetchSequential(ctx)
	}

	var batch Batch
	var jobs []models.Job
	for i, results := range perQuery {
		query := o.opts.Queries[i]
		for _, res := range results {
			qlog := log.With().Str("source", res.source).Str("query", query).Logger()
			switch {
			case errors.Is(res.err, scraper.ErrNoResults):
				qlog.Info().Err(res.err).Msg("no results")
			case res.err != nil:
				batch.FetchFailures++
				qlog.Warn().Err(res.err).Msg("fetch failed")
			default:
				qlog.Debug().Int("count", len(res.raws)).Msg("fetched")
			}
			for _, normalized := range o.normalizer.All(res.raws, query) {
				if normalized.Posted.Status == models.FieldMalformed {
					batch.Malformed++
					qlog.Debug().Str("raw", normalized.Posted.Raw).Msg("unparseable posted_at")
				}
				jobs = append(jobs, normalized.Job)
			}
		}
	}
	batch.Fetched = len(jobs)
	if batch.Malformed > 0 {
		log.Warn().Int("count", batch.Malformed).Msg("unparseable posted_at values stored as null")
	}
	if err != nil {
		return batch, err
	}

	unique, stats := dedupe.Jobs(jobs)
	batch.Jobs = unique
	log.Info().Int("input", stats.Input).Int("unique", stats.Unique).Int("dropped", stats.Dropped()).Msg("deduplicated")
	return batch, nil
}

func (o *Orchestrator) fetchSequential(ctx context.Context) ([][]fetchResult, error) {
	out := make([][]fetchResult, 0, len(o.opts.Queries))
	for i, query := range o.opts.Queries {
		if i > 0 {
			if err := o.sleep(ctx, o.opts.Delay); err != nil {
				return out, err
			}
		}
		results, err := o.fetchQuery(ctx, query)
		if err != nil {
			return out, err
		}
		out = append(out, results)
	}
	return out, nil
}

// fetchParallel fetches up to Parallel queries at once. Each worker holds
// its slot for the courtesy delay after finishing, except the worker of the
// last query. Results keep query order.
func (o *Orchestrator) fetchParallel(ctx context.Context) ([][]fetchResult, error) {
	out := make([][]fetchResult, len(o.opts.Queries))
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(o.opts.Parallel)
	for i, query := range o.opts.Queries {
		i, query := i, query
		group.Go(func() error {
			results, err := o.fetchQuery(gctx, query)
			if err != nil {
				return err
			}
			out[i] = results
			if i == len(o.opts.Queries)-1 {
				return nil
			}
			return o.sleep(gctx, o.opts.Delay)
		})
	}
	if err := group.Wait(); err != nil {
		return completed(out), err
	}
	return out, nil
}

func completed(results [][]fetchResult) [][]fetchResult {
	for i, r := range results {
		if r == nil {
			return results[:i]
		}
	}
	return results
}

// fetchQuery calls every source in order. Adapter errors are kept in the
// result; only a cancelled context is returned.
func (o *Orchestrator) fetchQuery(ctx context.Context, query string) ([]fetchResult, error) {
	results := make([]fetchResult, 0, len(o.sources))
	for _, source := range o.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raws, err := source.Search(ctx, models.SearchParams{
			Query:    query,
			Location: o.opts.Location,
			Limit:    o.opts.limitFor(source.Name()),
		})
		if err != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		results = append(results, fetchResult{source: source.Name(), raws: raws, err: err})
	}
	return results, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
