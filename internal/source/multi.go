package source

import (
	"context"
	"errors"
	"log/slog"

	"github.com/platewatch/platewatch/internal/model"
)

// MultiSource queries several record feeds as one. A feed failure is
// absorbed while any sibling succeeds; the lookup fails only when every
// feed does.
type MultiSource struct {
	sources []RecordSource
	log     *slog.Logger
}

// NewMultiSource combines record feeds. A single feed is returned as-is.
func NewMultiSource(log *slog.Logger, sources ...RecordSource) RecordSource {
	if len(sources) == 1 {
		return sources[0]
	}
	return &MultiSource{sources: sources, log: log}
}

// Lookup queries every feed in order and concatenates the results.
func (m *MultiSource) Lookup(ctx context.Context, keyword string, limit, recencyWindowDays int) ([]model.HazardRecord, error) {
	var merged []model.HazardRecord
	var errs []error
	for _, src := range m.sources {
		records, err := src.Lookup(ctx, keyword, limit, recencyWindowDays)
		if err != nil {
			m.log.Warn("feed lookup failed", "keyword", keyword, "error", err)
			errs = append(errs, err)
			continue
		}
		merged = append(merged, records...)
	}
	if len(errs) == len(m.sources) {
		return nil, errors.Join(errs...)
	}
	return merged, nil
}
