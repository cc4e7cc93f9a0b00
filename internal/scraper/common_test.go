package scraper

import (
	"io"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	fhttp "github.com/bogdanfinn/fhttp"
)

type stubDoer struct {
	status   int
	body     string
	err      error
	requests []*fhttp.Request
}

func (s *stubDoer) Do(req *fhttp.Request) (*fhttp.Response, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	status := s.status
	if status == 0 {
		status = fhttp.StatusOK
	}
	return &fhttp.Response{
		StatusCode: status,
		Header:     fhttp.Header{},
		Body:       io.NopCloser(strings.NewReader(s.body)),
		Request:    req,
	}, nil
}

func TestAbsoluteURL(t *testing.T) {
	base := "https://example.com"
	cases := []struct {
		href string
		want string
	}{
		{"/jobs/1", "https://example.com/jobs/1"},
		{"https://other.com/a", "https://other.com/a"},
		{"//cdn.example.com/asset", "https://cdn.example.com/asset"},
		{"  ", ""},
	}

	for _, tc := range cases {
		got := absoluteURL(base, tc.href)
		if got != tc.want {
			t.Fatalf("absoluteURL(%q) = %q, want %q", tc.href, got, tc.want)
		}
	}
}

func TestCleanText(t *testing.T) {
	got := cleanText("  Data&nbsp;Engineer \n\t (Remote)  ")
	if got != "Data Engineer (Remote)" {
		t.Fatalf("cleanText() = %q", got)
	}
}

func TestTextOrDefaultsOnMiss(t *testing.T) {
	doc := mustDoc(t, `<div class="card"><span class="a">  </span></div>`)
	card := doc.Find("div.card")

	if got := textOr(card, "span.a", "N/A"); got != "N/A" {
		t.Fatalf("empty match: got %q", got)
	}
	if got := textOr(card, "span.missing", ""); got != "" {
		t.Fatalf("missing match: got %q", got)
	}
}

func TestCapLimit(t *testing.T) {
	items := []int{1, 2, 3}
	if got := capLimit(items, 2); len(got) != 2 {
		t.Fatalf("capLimit(2) len = %d", len(got))
	}
	if got := capLimit(items, 0); len(got) != 3 {
		t.Fatalf("capLimit(0) len = %d", len(got))
	}
}

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse document: %v", err)
	}
	return doc
}
