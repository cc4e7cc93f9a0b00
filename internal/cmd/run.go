package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/jimezsa/jobtrackr/internal/normalize"
	"github.com/jimezsa/jobtrackr/internal/persist"
	"github.com/jimezsa/jobtrackr/internal/pipeline"
	"github.com/jimezsa/jobtrackr/internal/store"
)

type RunCmd struct {
	SourceOptions
	Store  string `help:"Store backend: supabase, postgres, memory." enum:",supabase,postgres,memory" default:""`
	Table  string `help:"Table to write to."`
	Report string `help:"Write an HTML debug report of the batch to this path."`
	DryRun bool   `help:"Persist to an in-memory store instead of the configured backend."`
}

func (r *RunCmd) Run(ctx *Context) error {
	queries, err := resolveQueries(r.Query, r.QueryFile, ctx.Config.Queries)
	if err != nil {
		return err
	}

	runCtx := ctx.RunContext()
	sources, err := buildSources(ctx, r.SourceOptions)
	if err != nil {
		return err
	}

	kind := r.Store
	if r.DryRun {
		kind = store.KindMemory
	}
	backend, closeStore, err := openStore(runCtx, ctx, kind, r.Table)
	if err != nil {
		return err
	}
	defer closeStore()

	opts := r.pipelineOptions(ctx.Config, queries)
	opts.ReportPath = firstNonEmpty(r.Report, ctx.Config.ReportPath)

	orchestrator := pipeline.New(
		sources,
		normalize.New(),
		persist.NewGateway(backend, ctx.Logger),
		ctx.Logger,
		opts,
	)

	summary, err := orchestrator.Run(runCtx)
	if err != nil {
		return err
	}
	return writeRunSummary(ctx, summary)
}

func writeRunSummary(ctx *Context, summary pipeline.Summary) error {
	if ctx.JSONOutput {
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	if ctx.PlainText {
		_, err := fmt.Fprintf(ctx.Out, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
			summary.RunID,
			summary.Fetched,
			summary.Unique,
			summary.Inserted,
			summary.Skipped,
			summary.Failed,
			summary.FetchFailures,
			summary.MalformedPostedAt,
		)
		return err
	}

	ctx.UI.Successf("%s", formatRunSummary(summary))
	if summary.FetchFailures > 0 || summary.Failed > 0 {
		ctx.UI.Warnf("some requests or inserts failed; rerun with --verbose for details")
	}
	return nil
}

func formatRunSummary(summary pipeline.Summary) string {
	return fmt.Sprintf(
		"summary: fetched=%d unique=%d inserted=%d skipped=%d failed=%d fetch_failures=%d malformed_posted_at=%d",
		summary.Fetched,
		summary.Unique,
		summary.Inserted,
		summary.Skipped,
		summary.Failed,
		summary.FetchFailures,
		summary.MalformedPostedAt,
	)
}
