package models

// SourceKind discriminates raw listings by the adapter that produced them.
type SourceKind int

const (
	KindAPI SourceKind = iota + 1
	KindHTML
)

func (k SourceKind) String() string {
	switch k {
	case KindAPI:
		return "api"
	case KindHTML:
		return "html"
	default:
		return "unknown"
	}
}

// RawJob is a listing as returned by an adapter, before normalization.
// Exactly one of API or HTML is set, matching Kind.
type RawJob struct {
	Kind SourceKind
	API  *APIListing
	HTML *HTMLListing
}

// APIListing carries the fields extracted from a search-API result.
// Strings are already defaulted by the adapter.
type APIListing struct {
	Title        string
	Company      string
	Location     string
	Description  string
	Salary       string
	PostedRaw    string
	ApplyOptions []string
}

// HTMLListing carries the fields extracted from one listing container.
type HTMLListing struct {
	Title       string
	Company     string
	Location    string
	Description string
	Salary      string
	PostedRaw   string
	Link        string
}

// NewAPIJob wraps an API listing in a RawJob.
func NewAPIJob(listing APIListing) RawJob {
	return RawJob{Kind: KindAPI, API: &listing}
}

// NewHTMLJob wraps an HTML listing in a RawJob.
func NewHTMLJob(listing HTMLListing) RawJob {
	return RawJob{Kind: KindHTML, HTML: &listing}
}
