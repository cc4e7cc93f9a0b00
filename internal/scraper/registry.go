package scraper

import (
	"fmt"
	"strings"

	"github.com/jimezsa/jobtrackr/internal/config"
	"github.com/jimezsa/jobtrackr/internal/network"
)

const (
	SiteSerpAPI    = "serpapi"
	SiteOnlineJobs = "onlinejobs"
)

// Order is the fixed adapter order of a run. Deduplication keeps the first
// occurrence, so earlier sources win ties.
var Order = []string{SiteSerpAPI, SiteOnlineJobs}

// Registry builds the requested sources in Order. Each source gets its own
// client so cookie jars are not shared.
func Registry(sites []string, rotator *network.Rotator, opts network.Options, creds config.Credentials) ([]Source, error) {
	wanted := map[string]bool{}
	for _, site := range NormalizeSites(sites) {
		switch site {
		case "all":
			for _, name := range Order {
				wanted[name] = true
			}
		case SiteSerpAPI, SiteOnlineJobs:
			wanted[site] = true
		default:
			return nil, fmt.Errorf("unknown site: %s", site)
		}
	}
	if len(wanted) == 0 {
		for _, name := range Order {
			wanted[name] = true
		}
	}

	var sources []Source
	for _, name := range Order {
		if !wanted[name] {
			continue
		}
		client, err := network.NewClient(rotator, opts)
		if err != nil {
			return nil, err
		}
		switch name {
		case SiteSerpAPI:
			src, err := NewSerpAPI(client, creds.SerpAPI)
			if err != nil {
				return nil, err
			}
			sources = append(sources, src)
		case SiteOnlineJobs:
			sources = append(sources, NewOnlineJobs(client))
		}
	}
	return sources, nil
}

func NormalizeSites(sites []string) []string {
	out := make([]string, 0, len(sites))
	for _, site := range sites {
		site = strings.ToLower(strings.TrimSpace(site))
		if site == "" {
			continue
		}
		site = strings.TrimPrefix(site, "www.")
		switch site {
		case "serp", "google", "indeed":
			site = SiteSerpAPI
		case "onlinejobs.ph", "online-jobs":
			site = SiteOnlineJobs
		}
		out = append(out, site)
	}
	return out
}
