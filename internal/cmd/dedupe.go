package cmd

import (
	"fmt"

	"github.com/jimezsa/jobtrackr/internal/dedupe"
)

type DedupeCmd struct {
	In    string `name:"in" required:"" help:"Path to a jobs JSON file."`
	Out   string `name:"out" required:"" help:"Output path for the deduplicated jobs JSON file."`
	Seen  string `name:"seen" help:"Also drop jobs present in this JSON history file. Missing file is treated as empty."`
	Stats bool   `name:"stats" help:"Print dedupe stats."`
}

func (d *DedupeCmd) Run(ctx *Context) error {
	if pathsEqual(d.In, d.Out) {
		return fmt.Errorf("--out path must differ from --in")
	}

	jobs, err := dedupe.LoadBatch(d.In)
	if err != nil {
		return fmt.Errorf("read --in: %w", err)
	}

	unique, stats := dedupe.Jobs(jobs)
	seenTotal := 0
	if d.Seen != "" {
		seenJobs, err := dedupe.LoadHistory(d.Seen)
		if err != nil {
			return fmt.Errorf("read --seen: %w", err)
		}
		var diff dedupe.DiffStats
		unique, diff = dedupe.Diff(unique, seenJobs)
		seenTotal = diff.TotalSeen
	}

	if err := dedupe.SaveBatch(d.Out, unique); err != nil {
		return fmt.Errorf("write --out: %w", err)
	}

	if d.Stats {
		_, err := fmt.Fprintf(
			ctx.Out,
			"input=%d unique=%d dropped=%d seen=%d emitted=%d\n",
			stats.Input,
			stats.Unique,
			stats.Dropped(),
			seenTotal,
			len(unique),
		)
		return err
	}
	return nil
}
