package normalize

import (
	"testing"
	"time"

	"github.com/jimezsa/jobtrackr/internal/models"
)

func TestParsePostedAt(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	manila := time.FixedZone("PHT", 8*3600)

	cases := []struct {
		raw  string
		want time.Time
	}{
		{"2024-01-02", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"2024-01-02T15:04:05+08:00", time.Date(2024, 1, 2, 15, 4, 5, 0, manila)},
		{"May 1, 2024", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{"3 days ago", now.AddDate(0, 0, -3)},
		{"30+ days ago", now.AddDate(0, 0, -30)},
		{"an hour ago", now.Add(-time.Hour)},
		{"17 hours ago", now.Add(-17 * time.Hour)},
		{"Posted 2 weeks ago", now.AddDate(0, 0, -14)},
		{"yesterday", now.AddDate(0, 0, -1)},
		{"Just posted", now},
	}

	for _, tc := range cases {
		got := ParsePostedAt(tc.raw, now)
		if got.Status != models.FieldParsed {
			t.Fatalf("ParsePostedAt(%q) status = %s, err = %v", tc.raw, got.Status, got.Err)
		}
		if !got.Time.Equal(tc.want) {
			t.Fatalf("ParsePostedAt(%q) = %v, want %v", tc.raw, got.Time, tc.want)
		}
		if got.Time.Location() != time.UTC {
			t.Fatalf("ParsePostedAt(%q) not in UTC: %v", tc.raw, got.Time.Location())
		}
		if p := got.Ptr(); p == nil || !p.Equal(tc.want) {
			t.Fatalf("Ptr() = %v", p)
		}
	}
}

func TestParsePostedAtAbsentAndMalformed(t *testing.T) {
	now := time.Now()

	absent := ParsePostedAt("   ", now)
	if absent.Status != models.FieldAbsent || absent.Ptr() != nil {
		t.Fatalf("blank input: %+v", absent)
	}

	for _, raw := range []string{"sometime soon", "not a date", "whenever"} {
		got := ParsePostedAt(raw, now)
		if got.Status != models.FieldMalformed {
			t.Fatalf("ParsePostedAt(%q) status = %s, want malformed", raw, got.Status)
		}
		if got.Ptr() != nil {
			t.Fatalf("ParsePostedAt(%q) Ptr() should be nil", raw)
		}
		if got.Err == nil {
			t.Fatalf("ParsePostedAt(%q) expected error detail", raw)
		}
	}
}
