package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jimezsa/jobtrackr/internal/dedupe"
	"github.com/jimezsa/jobtrackr/internal/export"
	"github.com/jimezsa/jobtrackr/internal/models"
	"github.com/jimezsa/jobtrackr/internal/normalize"
	"github.com/jimezsa/jobtrackr/internal/pipeline"
)

type FetchCmd struct {
	SourceOptions
	Format string `help:"Output format: table, csv, tsv, json, md, html." enum:",table,csv,tsv,json,md,html" default:""`
	Links  string `help:"Table link display: short or full." enum:"short,full" default:"full"`
	Output string `name:"output" short:"o" help:"Write output to a file."`
	Seen   string `help:"Only output jobs absent from this JSON history file."`
}

func (f *FetchCmd) Run(ctx *Context) error {
	queries, err := resolveQueries(f.Query, f.QueryFile, ctx.Config.Queries)
	if err != nil {
		return err
	}
	if strings.TrimSpace(f.Seen) != "" && pathsEqual(f.Output, f.Seen) {
		return fmt.Errorf("--output path must differ from --seen")
	}

	sources, err := buildSources(ctx, f.SourceOptions)
	if err != nil {
		return err
	}

	orchestrator := pipeline.New(sources, normalize.New(), nil, ctx.Logger, f.pipelineOptions(ctx.Config, queries))

	batch, err := orchestrator.Collect(ctx.RunContext())
	if err != nil {
		return err
	}

	jobs := batch.Jobs
	if strings.TrimSpace(f.Seen) != "" {
		seenJobs, err := dedupe.LoadHistory(f.Seen)
		if err != nil {
			return fmt.Errorf("read --seen: %w", err)
		}
		jobs, _ = dedupe.Diff(jobs, seenJobs)
	}

	format, err := resolveFormat(ctx, f.Format, f.Output)
	if err != nil {
		return err
	}

	writer := ctx.Out
	if f.Output != "" {
		file, err := os.Create(f.Output)
		if err != nil {
			return err
		}
		defer file.Close()
		writer = file
	}

	colorEnabled := ctx.UI != nil && ctx.UI.ColorEnabled
	linkStyle := export.LinkStyleShort
	if strings.EqualFold(f.Links, string(export.LinkStyleFull)) {
		linkStyle = export.LinkStyleFull
	}
	if err := export.WriteJobs(writer, jobs, format, export.WriteOptions{
		ColorEnabled: colorEnabled,
		Hyperlinks:   colorEnabled && isTTY(writer),
		LinkStyle:    linkStyle,
	}); err != nil {
		return err
	}

	if batch.FetchFailures > 0 && ctx.UI != nil {
		ctx.UI.Warnf("%d source requests failed", batch.FetchFailures)
	}
	printFetchSummary(ctx, batch, jobs)
	return nil
}

func printFetchSummary(ctx *Context, batch pipeline.Batch, jobs []models.Job) {
	if ctx == nil || ctx.Err == nil {
		return
	}
	_, _ = fmt.Fprintf(ctx.Err, "summary: fetched=%d unique=%d output=%d\n", batch.Fetched, len(batch.Jobs), len(jobs))
}

// resolveFormat picks the writer format. Global --json and --plain win, then
// --format, then the output file extension, then TTY detection.
func resolveFormat(ctx *Context, flagFormat string, outputPath string) (export.Format, error) {
	if ctx.JSONOutput {
		return export.FormatJSON, nil
	}
	if ctx.PlainText {
		return export.FormatTSV, nil
	}
	if flagFormat != "" {
		return export.ParseFormat(flagFormat)
	}
	if outputPath != "" {
		ext := strings.TrimPrefix(filepath.Ext(outputPath), ".")
		if format, err := export.ParseFormat(ext); err == nil && ext != "" {
			return format, nil
		}
		return export.FormatCSV, nil
	}
	if isTTY(ctx.Out) {
		return export.FormatTable, nil
	}
	return export.FormatCSV, nil
}

func pathsEqual(a, b string) bool {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil {
		return absA == absB
	}
	return filepath.Clean(a) == filepath.Clean(b)
}
