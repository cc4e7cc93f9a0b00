package scraper

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jimezsa/jobtrackr/internal/config"
	"github.com/jimezsa/jobtrackr/internal/models"
	"github.com/jimezsa/jobtrackr/internal/network"
)

const (
	serpAPIEndpoint = "https://serpapi.com/search.json"
	serpAPIEngine   = "google_jobs"
)

// SerpAPI searches Google Jobs through the SerpAPI JSON endpoint.
type SerpAPI struct {
	client   network.Doer
	apiKey   string
	endpoint string
}

// NewSerpAPI fails with config.ErrMissingCredential when the key is unset.
func NewSerpAPI(client network.Doer, creds config.SerpAPI) (*SerpAPI, error) {
	if err := config.Require(creds); err != nil {
		return nil, err
	}
	return &SerpAPI{client: client, apiKey: creds.APIKey, endpoint: serpAPIEndpoint}, nil
}

func (s *SerpAPI) Name() string {
	return SiteSerpAPI
}

func (s *SerpAPI) Search(ctx context.Context, params models.SearchParams) ([]models.RawJob, error) {
	var payload map[string]any
	if err := fetchJSON(ctx, s.client, SiteSerpAPI, s.buildURL(params), &payload); err != nil {
		return nil, err
	}

	results, ok := payload["jobs_results"].([]any)
	if !ok {
		if msg := stringValue(payload["error"]); msg != "" {
			return nil, fmt.Errorf("%w for %q: %s", ErrNoResults, params.Query, msg)
		}
		return nil, fmt.Errorf("%w for %q", ErrNoResults, params.Query)
	}

	results = capLimit(results, params.Limit)
	jobs := make([]models.RawJob, 0, len(results))
	for _, item := range results {
		result, ok := item.(map[string]any)
		if !ok {
			continue
		}
		jobs = append(jobs, models.NewAPIJob(parseSerpAPIResult(result)))
	}
	return jobs, nil
}

func (s *SerpAPI) buildURL(params models.SearchParams) string {
	values := url.Values{}
	values.Set("engine", serpAPIEngine)
	values.Set("q", params.Query)
	if params.Location != "" {
		values.Set("location", params.Location)
	}
	values.Set("api_key", s.apiKey)
	return s.endpoint + "?" + values.Encode()
}

func parseSerpAPIResult(result map[string]any) models.APIListing {
	extensions := result["detected_extensions"]
	listing := models.APIListing{
		Title:       stringOr(result["title"], models.NotAvailable),
		Company:     stringOr(result["company_name"], models.NotAvailable),
		Location:    stringOr(result["location"], models.NotAvailable),
		Description: stringOr(result["description"], ""),
		Salary:      stringOr(mapValue(extensions, "salary"), models.NotAvailable),
		PostedRaw:   stringValue(mapValue(extensions, "posted_at")),
	}

	if options, ok := result["apply_options"].([]any); ok {
		for _, option := range options {
			if link := stringValue(mapValue(option, "link")); link != "" {
				listing.ApplyOptions = append(listing.ApplyOptions, link)
			}
		}
	}
	return listing
}
