// Package source holds the boundary clients for the external data sets:
// the recall feed, the product catalog and the advisory/sustainability
// feeds. Upstream payload shapes are normalized here; the ambiguity of
// duck-typed responses never crosses into the rest of the service.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/platewatch/platewatch/internal/model"
)

// ErrNotFound reports a valid request that matched no record. It is not an
// error state for callers; they branch on it with errors.Is.
var ErrNotFound = errors.New("not found")

// UpstreamError wraps a transient per-lookup failure (transport, bad
// status, parse). It never propagates past the fan-out boundary.
type UpstreamError struct {
	Source string // which collaborator failed ("recalls", "product", "advisory")
	Op     string
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Source, e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// RecordSource looks up hazard records matching a keyword, bounded by a
// result limit and a recency window in days.
type RecordSource interface {
	Lookup(ctx context.Context, keyword string, limit, recencyWindowDays int) ([]model.HazardRecord, error)
}

// ProductSource fetches one product description by its scan code.
type ProductSource interface {
	GetByIdentifier(ctx context.Context, id string) (*model.ProductRecord, error)
}
