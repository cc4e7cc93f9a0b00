package scraper

import (
	"context"
	"errors"
	"fmt"

	"github.com/jimezsa/jobtrackr/internal/models"
)

// ErrNoResults is returned with an empty slice when the upstream answered
// without a results field. It is recoverable.
var ErrNoResults = errors.New("no results")

// FetchError reports a non-success transport response. It is recoverable.
type FetchError struct {
	Source string
	Status int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: http %d", e.Source, e.Status)
}

// Source is one upstream adapter. Search returns at most params.Limit raw
// listings in upstream order. A non-nil error with an empty slice means the
// call degraded; callers log it and continue.
type Source interface {
	Name() string
	Search(ctx context.Context, params models.SearchParams) ([]models.RawJob, error)
}
