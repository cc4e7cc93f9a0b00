package scraper

import (
	"errors"
	"reflect"
	"testing"

	"github.com/jimezsa/jobtrackr/internal/config"
	"github.com/jimezsa/jobtrackr/internal/network"
)

func TestNormalizeSites(t *testing.T) {
	got := NormalizeSites([]string{" SerpAPI", "", "www.onlinejobs.ph", "google"})
	want := []string{SiteSerpAPI, SiteOnlineJobs, SiteSerpAPI}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NormalizeSites() = %v, want %v", got, want)
	}
}

func TestRegistryOrderAndCredentials(t *testing.T) {
	creds := config.Credentials{SerpAPI: config.SerpAPI{APIKey: "k"}}

	sources, err := Registry([]string{"onlinejobs", "serpapi"}, nil, network.Options{}, creds)
	if err != nil {
		t.Fatalf("Registry() error = %v", err)
	}
	if len(sources) != 2 || sources[0].Name() != SiteSerpAPI || sources[1].Name() != SiteOnlineJobs {
		t.Fatalf("unexpected source order: %v", names(sources))
	}

	_, err = Registry([]string{"all"}, nil, network.Options{}, config.Credentials{})
	if !errors.Is(err, config.ErrMissingCredential) {
		t.Fatalf("Registry() error = %v, want ErrMissingCredential", err)
	}

	sources, err = Registry([]string{"onlinejobs"}, nil, network.Options{}, config.Credentials{})
	if err != nil || len(sources) != 1 {
		t.Fatalf("html-only registry: %v, %v", names(sources), err)
	}

	if _, err := Registry([]string{"monster"}, nil, network.Options{}, creds); err == nil {
		t.Fatalf("expected unknown site error")
	}
}

func names(sources []Source) []string {
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		out = append(out, s.Name())
	}
	return out
}
