package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jimezsa/jobtrackr/internal/config"
	"github.com/jimezsa/jobtrackr/internal/network"
	"github.com/jimezsa/jobtrackr/internal/pipeline"
	"github.com/jimezsa/jobtrackr/internal/scraper"
	"github.com/muesli/termenv"
)

// SourceOptions are the flags shared by every command that fetches.
type SourceOptions struct {
	Query     string        `arg:"" optional:"" help:"Search queries (comma-separated). Defaults to the configured query list."`
	QueryFile string        `help:"Path to JSON file with queries (top-level string array or object with job_titles array)."`
	Sites     string        `help:"Comma-separated list of sources: serpapi, onlinejobs, all." default:"all"`
	Location  string        `help:"Location sent to the search API."`
	APILimit  int           `name:"api-limit" help:"Maximum search API results per query."`
	HTMLLimit int           `name:"html-limit" help:"Maximum listings page results per query."`
	Delay     time.Duration `help:"Pause between queries (e.g. 1s, 500ms)."`
	NoDelay   bool          `help:"Disable the pause between queries."`
	Parallel  int           `help:"Fetch up to N queries at once." default:"1"`
	Proxies   string        `help:"Comma-separated proxy URLs." env:"JOBTRACKR_PROXIES"`
}

const maxQueries = 25

func (o SourceOptions) pipelineOptions(cfg config.Config, queries []string) pipeline.Options {
	delay := cfg.Delay()
	if o.Delay > 0 {
		delay = o.Delay
	}
	if o.NoDelay {
		delay = 0
	}
	return pipeline.Options{
		Queries:  queries,
		Location: firstNonEmpty(o.Location, cfg.APILocation),
		Limits: map[string]int{
			scraper.SiteSerpAPI:    defaultInt(o.APILimit, cfg.APILimit),
			scraper.SiteOnlineJobs: defaultInt(o.HTMLLimit, cfg.HTMLLimit),
		},
		Delay:    delay,
		Parallel: o.Parallel,
	}
}

func buildSources(ctx *Context, opts SourceOptions) ([]scraper.Source, error) {
	proxies, err := config.LoadProxies(opts.Proxies)
	if err != nil {
		return nil, err
	}

	var rotator *network.Rotator
	if len(proxies) > 0 {
		rotator, err = network.NewRotator(proxies, 10*time.Minute)
		if err != nil {
			return nil, err
		}
	}

	return scraper.Registry(
		strings.Split(opts.Sites, ","),
		rotator,
		network.Options{Timeout: ctx.Config.Timeout()},
		ctx.Credentials,
	)
}

// resolveQueries merges positional and file queries. With neither given the
// fallback list is used.
func resolveQueries(raw string, queryFile string, fallback []string) ([]string, error) {
	positionalQueries := splitQueries(raw)
	var fileQueries []string
	if strings.TrimSpace(queryFile) != "" {
		var err error
		fileQueries, err = loadQueriesFromJSON(queryFile)
		if err != nil {
			return nil, err
		}
	}
	if len(positionalQueries) == 0 && len(fileQueries) == 0 && strings.TrimSpace(queryFile) == "" {
		positionalQueries = fallback
	}
	return mergeAndNormalizeQueries(positionalQueries, fileQueries)
}

func splitQueries(raw string) []string {
	parts := strings.Split(raw, ",")
	queries := make([]string, 0, len(parts))

	for _, part := range parts {
		query := strings.TrimSpace(part)
		if query == "" {
			continue
		}
		queries = append(queries, query)
	}

	return queries
}

func mergeAndNormalizeQueries(primary []string, secondary []string) ([]string, error) {
	queries := make([]string, 0, len(primary)+len(secondary))
	seenQueries := make(map[string]struct{}, len(primary)+len(secondary))

	appendUnique := func(rawQuery string) {
		query := strings.TrimSpace(rawQuery)
		if query == "" {
			return
		}
		normalized := strings.ToLower(query)
		if _, exists := seenQueries[normalized]; exists {
			return
		}
		seenQueries[normalized] = struct{}{}
		queries = append(queries, query)
	}

	for _, query := range primary {
		appendUnique(query)
	}
	for _, query := range secondary {
		appendUnique(query)
	}

	if len(queries) == 0 {
		return nil, fmt.Errorf("at least one non-empty query is required")
	}
	if len(queries) > maxQueries {
		return nil, fmt.Errorf("too many queries: max %d", maxQueries)
	}

	return queries, nil
}

func loadQueriesFromJSON(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read --query-file %q: %w", path, err)
	}

	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("parse --query-file %q: %w", path, err)
	}

	switch value := decoded.(type) {
	case []any:
		return parseStringArray(value, path, "root array")
	case map[string]any:
		rawTitles, ok := value["job_titles"]
		if !ok {
			return nil, fmt.Errorf("invalid --query-file %q: expected top-level string array or object with \"job_titles\" string array", path)
		}
		titles, ok := rawTitles.([]any)
		if !ok {
			return nil, fmt.Errorf("invalid --query-file %q: field \"job_titles\" must be an array of strings", path)
		}
		return parseStringArray(titles, path, "job_titles")
	default:
		return nil, fmt.Errorf("invalid --query-file %q: expected top-level string array or object with \"job_titles\" string array", path)
	}
}

func parseStringArray(values []any, path string, fieldName string) ([]string, error) {
	queries := make([]string, 0, len(values))
	for idx, rawValue := range values {
		query, ok := rawValue.(string)
		if !ok {
			return nil, fmt.Errorf("invalid --query-file %q: %s[%d] must be a string", path, fieldName, idx)
		}
		query = strings.TrimSpace(query)
		if query == "" {
			continue
		}
		queries = append(queries, query)
	}
	return queries, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func defaultInt(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}

func isTTY(out io.Writer) bool {
	output := termenv.NewOutput(out)
	return output.ColorProfile() != termenv.Ascii
}
