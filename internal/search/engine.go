// Package search implements the keyword fan-out query engine: one
// concurrent lookup per keyword against a record source, merged into a
// unique, recency-ranked result.
package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/platewatch/platewatch/internal/classify"
	"github.com/platewatch/platewatch/internal/model"
	"github.com/platewatch/platewatch/internal/rank"
	"github.com/platewatch/platewatch/internal/source"
	"github.com/platewatch/platewatch/internal/worker"
)

// Options bounds one fan-out search.
type Options struct {
	PerKeywordLimit   int // Cap per keyword lookup
	RecencyWindowDays int // Lookup window passed upstream
	Limit             int // Overall cap across all keywords; typically smaller than the fan-out total
	Workers           int // Concurrent lookups; defaults to one worker per keyword
}

// Engine fans keyword lookups out against a record source.
type Engine struct {
	src source.RecordSource
	log *slog.Logger
}

// NewEngine creates a fan-out engine over src.
func NewEngine(src source.RecordSource, log *slog.Logger) *Engine {
	return &Engine{src: src, log: log}
}

// lookupJob is one per-keyword lookup executed on the pool.
type lookupJob struct {
	src     source.RecordSource
	keyword string
	opts    Options
}

// lookupResult carries one keyword's records or its failure.
type lookupResult struct {
	keyword string
	records []model.HazardRecord
	err     error
}

func (j *lookupJob) Execute(ctx context.Context) lookupResult {
	records, err := j.src.Lookup(ctx, j.keyword, j.opts.PerKeywordLimit, j.opts.RecencyWindowDays)
	return lookupResult{keyword: j.keyword, records: records, err: err}
}

// SearchByKeywords issues one lookup per keyword concurrently, merges the
// successes in keyword order, dedupes, ranks by recency and classifies the
// survivors.
//
// A failed lookup contributes zero records and is logged; it never fails
// the overall call. One bad upstream response must not blank out an entire
// category view.
func (e *Engine) SearchByKeywords(ctx context.Context, keywords []string, opts Options) []model.HazardRecord {
	keywords = cleanKeywords(keywords)
	if len(keywords) == 0 {
		return []model.HazardRecord{}
	}

	workers := opts.Workers
	if workers <= 0 || workers > len(keywords) {
		workers = len(keywords)
	}

	pool := worker.NewPool[lookupResult](workers)
	pool.Start(ctx)
	for _, kw := range keywords {
		pool.Submit(&lookupJob{src: e.src, keyword: kw, opts: opts})
	}
	results := pool.Wait()

	// Re-establish keyword order: the pool yields completion order, and
	// merge order must be deterministic for identical inputs.
	byKeyword := make(map[string]lookupResult, len(results))
	for _, res := range results {
		byKeyword[res.keyword] = res
	}

	var merged []model.HazardRecord
	for _, kw := range keywords {
		res, ok := byKeyword[kw]
		if !ok {
			continue
		}
		if res.err != nil {
			e.log.Warn("keyword lookup failed", "keyword", kw, "error", res.err)
			continue
		}
		for _, rec := range res.records {
			rec.OriginTags = append(rec.OriginTags, kw)
			merged = append(merged, rec)
		}
	}

	return classify.Records(rank.DedupeAndRank(merged, opts.Limit))
}

// cleanKeywords trims blanks and drops duplicates, preserving order.
func cleanKeywords(keywords []string) []string {
	seen := make(map[string]bool, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		out = append(out, kw)
	}
	return out
}
