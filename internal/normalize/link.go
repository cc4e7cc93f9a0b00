package normalize

import (
	"net/url"
	"strings"
)

const fallbackSearchURL = "https://www.google.com/search"

// FallbackLink builds the search URL used when a listing has no apply link.
// It depends only on title and company.
func FallbackLink(title, company string) string {
	terms := strings.Join(strings.Fields(title+" "+company), " ")
	values := url.Values{}
	values.Set("q", terms+" site:indeed.com")
	return fallbackSearchURL + "?" + values.Encode()
}
