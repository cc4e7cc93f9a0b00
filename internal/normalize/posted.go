package normalize

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/jimezsa/jobtrackr/internal/models"
)

var relativePattern = regexp.MustCompile(`^(?:posted\s+)?(\d+|an?|one)\+?\s*(minute|min|hour|hr|day|week|month|year)s?\s+ago$`)

var relativeUnits = map[string]func(time.Time, int) time.Time{
	"minute": func(t time.Time, n int) time.Time { return t.Add(-time.Duration(n) * time.Minute) },
	"min":    func(t time.Time, n int) time.Time { return t.Add(-time.Duration(n) * time.Minute) },
	"hour":   func(t time.Time, n int) time.Time { return t.Add(-time.Duration(n) * time.Hour) },
	"hr":     func(t time.Time, n int) time.Time { return t.Add(-time.Duration(n) * time.Hour) },
	"day":    func(t time.Time, n int) time.Time { return t.AddDate(0, 0, -n) },
	"week":   func(t time.Time, n int) time.Time { return t.AddDate(0, 0, -7*n) },
	"month":  func(t time.Time, n int) time.Time { return t.AddDate(0, -n, 0) },
	"year":   func(t time.Time, n int) time.Time { return t.AddDate(-n, 0, 0) },
}

// ParsePostedAt resolves a posted timestamp against now. It accepts
// absolute dates in most written forms and relative phrases such as
// "3 days ago". It never panics; failures come back as FieldMalformed.
func ParsePostedAt(raw string, now time.Time) (result models.PostedAt) {
	value := strings.TrimSpace(raw)
	result.Raw = raw
	if value == "" {
		return result
	}

	defer func() {
		if r := recover(); r != nil {
			result = models.PostedAt{Raw: raw, Status: models.FieldMalformed, Err: fmt.Errorf("parse %q: %v", raw, r)}
		}
	}()

	if ts, ok := parseRelative(value, now); ok {
		result.Time = ts.UTC()
		result.Status = models.FieldParsed
		return result
	}

	ts, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		result.Status = models.FieldMalformed
		result.Err = err
		return result
	}
	result.Time = ts.UTC()
	result.Status = models.FieldParsed
	return result
}

var errUnknownPhrase = errors.New("unknown relative phrase")

func parseRelative(value string, now time.Time) (time.Time, bool) {
	phrase := strings.ToLower(strings.Join(strings.Fields(value), " "))
	phrase = strings.TrimPrefix(phrase, "posted ")

	switch phrase {
	case "just posted", "just now", "today", "now":
		return now, true
	case "yesterday":
		return now.AddDate(0, 0, -1), true
	}

	m := relativePattern.FindStringSubmatch(phrase)
	if m == nil {
		return time.Time{}, false
	}
	n, err := relativeCount(m[1])
	if err != nil {
		return time.Time{}, false
	}
	return relativeUnits[m[2]](now, n), true
}

func relativeCount(token string) (int, error) {
	switch token {
	case "a", "an", "one":
		return 1, nil
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errUnknownPhrase
	}
	return n, nil
}
