package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jimezsa/jobtrackr/internal/config"
	"github.com/jimezsa/jobtrackr/internal/dedupe"
	"github.com/jimezsa/jobtrackr/internal/export"
	"github.com/jimezsa/jobtrackr/internal/models"
	"github.com/jimezsa/jobtrackr/internal/pipeline"
	"github.com/jimezsa/jobtrackr/internal/scraper"
	"github.com/jimezsa/jobtrackr/internal/store"
)

func TestResolveQueries(t *testing.T) {
	dir := t.TempDir()
	queryFile := filepath.Join(dir, "queries.json")
	if err := os.WriteFile(queryFile, []byte(`{"job_titles": ["Data Engineer", "bookkeeper", " "]}`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	fallback := []string{"data scientist", "data analyst"}

	tests := []struct {
		name      string
		raw       string
		queryFile string
		want      []string
		wantErr   bool
	}{
		{name: "fallback", want: fallback},
		{name: "positional", raw: "qa engineer, , devops", want: []string{"qa engineer", "devops"}},
		{name: "merged and deduped", raw: "data engineer", queryFile: queryFile, want: []string{"data engineer", "bookkeeper"}},
		{name: "file only", queryFile: queryFile, want: []string{"Data Engineer", "bookkeeper"}},
		{name: "missing file", queryFile: filepath.Join(dir, "nope.json"), wantErr: true},
		{name: "only separators", raw: " , ", want: fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveQueries(tt.raw, tt.queryFile, fallback)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveQueries() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("resolveQueries() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestLoadQueriesFromJSONRejectsNonStrings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.json")
	if err := os.WriteFile(path, []byte(`["ok", 3]`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	_, err := loadQueriesFromJSON(path)
	if err == nil || !strings.Contains(err.Error(), "root array[1] must be a string") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMergeAndNormalizeQueriesLimit(t *testing.T) {
	many := make([]string, maxQueries+1)
	for i := range many {
		many[i] = "q" + strings.Repeat("x", i)
	}
	if _, err := mergeAndNormalizeQueries(many, nil); err == nil {
		t.Fatalf("expected too many queries error")
	}
}

func TestPipelineOptions(t *testing.T) {
	cfg := config.Config{APILocation: "Philippines", APILimit: 10, HTMLLimit: 10, DelayMS: 1000}

	opts := SourceOptions{APILimit: 5}.pipelineOptions(cfg, []string{"q"})
	if opts.Location != "Philippines" || opts.Delay != time.Second {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
	if opts.Limits[scraper.SiteSerpAPI] != 5 || opts.Limits[scraper.SiteOnlineJobs] != 10 {
		t.Fatalf("unexpected limits: %v", opts.Limits)
	}

	opts = SourceOptions{Location: "Cebu", Delay: 3 * time.Second}.pipelineOptions(cfg, nil)
	if opts.Location != "Cebu" || opts.Delay != 3*time.Second {
		t.Fatalf("flags not applied: %+v", opts)
	}

	opts = SourceOptions{Delay: 3 * time.Second, NoDelay: true}.pipelineOptions(cfg, nil)
	if opts.Delay != 0 {
		t.Fatalf("--no-delay not applied: %v", opts.Delay)
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		name   string
		ctx    *Context
		flag   string
		output string
		want   export.Format
	}{
		{name: "json flag wins", ctx: &Context{Out: io.Discard, JSONOutput: true}, flag: "csv", want: export.FormatJSON},
		{name: "plain flag", ctx: &Context{Out: io.Discard, PlainText: true}, output: "jobs.csv", want: export.FormatTSV},
		{name: "explicit format", ctx: &Context{Out: io.Discard}, flag: "md", want: export.FormatMarkdown},
		{name: "extension", ctx: &Context{Out: io.Discard}, output: "job_debug.html", want: export.FormatHTML},
		{name: "unknown extension", ctx: &Context{Out: io.Discard}, output: "jobs.out", want: export.FormatCSV},
		{name: "non tty", ctx: &Context{Out: io.Discard}, want: export.FormatCSV},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveFormat(tt.ctx, tt.flag, tt.output)
			if err != nil {
				t.Fatalf("resolveFormat() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("resolveFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDedupeCmd(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "batch.json")
	out := filepath.Join(dir, "unique.json")
	seenPath := filepath.Join(dir, "seen.json")

	jobs := []models.Job{
		{Title: "Data Engineer", Company: "Acme", Location: "Manila"},
		{Title: "data engineer", Company: "ACME", Location: "manila"},
		{Title: "Analyst", Company: "Beta", Location: "Cebu"},
		{Title: "VA", Company: "Gamma", Location: "Remote"},
	}
	if err := dedupe.SaveBatch(in, jobs); err != nil {
		t.Fatalf("SaveBatch() error = %v", err)
	}
	if err := dedupe.SaveBatch(seenPath, jobs[3:]); err != nil {
		t.Fatalf("SaveBatch() error = %v", err)
	}

	var buf bytes.Buffer
	cmd := &DedupeCmd{In: in, Out: out, Seen: seenPath, Stats: true}
	if err := cmd.Run(&Context{Out: &buf}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got, err := dedupe.LoadBatch(out)
	if err != nil {
		t.Fatalf("LoadBatch() error = %v", err)
	}
	if len(got) != 2 || got[0].Title != "Data Engineer" || got[1].Title != "Analyst" {
		t.Fatalf("unexpected output: %+v", got)
	}
	if want := "input=4 unique=3 dropped=1 seen=1 emitted=2\n"; buf.String() != want {
		t.Fatalf("stats = %q, want %q", buf.String(), want)
	}
}

func TestDedupeCmdRejectsSamePath(t *testing.T) {
	cmd := &DedupeCmd{In: "jobs.json", Out: "./jobs.json"}
	if err := cmd.Run(&Context{Out: io.Discard}); err == nil {
		t.Fatalf("expected error for identical paths")
	}
}

func TestMigratePrint(t *testing.T) {
	var buf bytes.Buffer
	cmd := &MigrateCmd{Print: true}
	if err := cmd.Run(&Context{Out: &buf}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "CREATE TABLE IF NOT EXISTS jobs") || !strings.Contains(out, "jobs_identity_idx") {
		t.Fatalf("unexpected SQL:\n%s", out)
	}
}

func TestOpenStore(t *testing.T) {
	ctx := &Context{Config: config.Config{Store: "memory"}}
	s, closeStore, err := openStore(context.Background(), ctx, "", "")
	if err != nil {
		t.Fatalf("openStore() error = %v", err)
	}
	defer closeStore()
	if _, ok := s.(*store.Memory); !ok {
		t.Fatalf("expected memory store, got %T", s)
	}

	if _, _, err := openStore(context.Background(), ctx, "sqlite", ""); err == nil {
		t.Fatalf("expected unknown store error")
	}

	_, _, err = openStore(context.Background(), &Context{}, store.KindSupabase, "")
	if !errors.Is(err, config.ErrMissingCredential) {
		t.Fatalf("expected missing credential, got %v", err)
	}
	_, _, err = openStore(context.Background(), &Context{}, store.KindPostgres, "")
	if !errors.Is(err, config.ErrMissingCredential) {
		t.Fatalf("expected missing credential, got %v", err)
	}
}

func TestBuildSourcesRequiresAPIKey(t *testing.T) {
	t.Setenv("JOBTRACKR_CONFIG_DIR", t.TempDir())
	t.Setenv("JOBTRACKR_PROXIES", "")

	ctx := &Context{}
	_, err := buildSources(ctx, SourceOptions{Sites: "all"})
	if !errors.Is(err, config.ErrMissingCredential) {
		t.Fatalf("expected missing credential, got %v", err)
	}

	sources, err := buildSources(ctx, SourceOptions{Sites: "onlinejobs"})
	if err != nil {
		t.Fatalf("buildSources() error = %v", err)
	}
	if len(sources) != 1 || sources[0].Name() != scraper.SiteOnlineJobs {
		t.Fatalf("unexpected sources: %v", sources)
	}
}

func TestWriteRunSummary(t *testing.T) {
	summary := pipeline.Summary{RunID: "r", Fetched: 5, Unique: 4, Inserted: 3, Skipped: 1, MalformedPostedAt: 2}

	var buf bytes.Buffer
	if err := writeRunSummary(&Context{Out: &buf, JSONOutput: true}, summary); err != nil {
		t.Fatalf("writeRunSummary() error = %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded["inserted"] != float64(3) || decoded["run_id"] != "r" || decoded["malformed_posted_at"] != float64(2) {
		t.Fatalf("unexpected summary: %v", decoded)
	}

	if got := formatRunSummary(summary); got != "summary: fetched=5 unique=4 inserted=3 skipped=1 failed=0 fetch_failures=0 malformed_posted_at=2" {
		t.Fatalf("formatRunSummary() = %q", got)
	}
}
