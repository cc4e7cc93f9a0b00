package models

import "time"

// FieldStatus tells why an optional field has the value it has.
type FieldStatus int

const (
	FieldAbsent FieldStatus = iota
	FieldParsed
	FieldMalformed
)

func (s FieldStatus) String() string {
	switch s {
	case FieldParsed:
		return "parsed"
	case FieldMalformed:
		return "malformed"
	default:
		return "absent"
	}
}

// PostedAt is the outcome of parsing a posted timestamp.
type PostedAt struct {
	Time   time.Time
	Status FieldStatus
	Raw    string
	Err    error
}

// Ptr returns the parsed time in UTC, or nil when nothing was parsed.
func (p PostedAt) Ptr() *time.Time {
	if p.Status != FieldParsed {
		return nil
	}
	ts := p.Time.UTC()
	return &ts
}
