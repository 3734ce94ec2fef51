// Package stats aggregates recent hazard records into a compact summary:
// counts by classification and status plus the most affected states.
package stats

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/platewatch/platewatch/internal/classify"
	"github.com/platewatch/platewatch/internal/model"
	"github.com/platewatch/platewatch/internal/source"
)

// StateCount is one entry of the most-affected-states list.
type StateCount struct {
	State string `json:"state"`
	Count int    `json:"count"`
}

// Summary describes the hazard activity inside one lookup window. The
// counts cover the sampled records, not the whole upstream corpus.
type Summary struct {
	WindowDays       int            `json:"window_days"`
	SampleSize       int            `json:"sample_size"`
	ByClassification map[string]int `json:"by_classification"`
	ByStatus         map[string]int `json:"by_status"`
	BySeverity       map[string]int `json:"by_severity"`
	TopStates        []StateCount   `json:"top_states"`
	GeneratedAt      time.Time      `json:"generated_at"`
}

// topStateCount bounds the most-affected-states list.
const topStateCount = 5

// Summarizer computes summaries from a record source.
type Summarizer struct {
	src         source.RecordSource
	sampleLimit int
}

// NewSummarizer creates a summarizer that samples up to sampleLimit
// records per summary.
func NewSummarizer(src source.RecordSource, sampleLimit int) *Summarizer {
	if sampleLimit <= 0 {
		sampleLimit = 100
	}
	return &Summarizer{src: src, sampleLimit: sampleLimit}
}

// Summarize fetches an unfiltered sample of records issued inside the
// window and aggregates it.
func (s *Summarizer) Summarize(ctx context.Context, windowDays int) (*Summary, error) {
	records, err := s.src.Lookup(ctx, "", s.sampleLimit, windowDays)
	if err != nil {
		return nil, fmt.Errorf("sample records: %w", err)
	}
	return Aggregate(records, windowDays), nil
}

// Aggregate builds a summary from an already fetched record set.
func Aggregate(records []model.HazardRecord, windowDays int) *Summary {
	summary := &Summary{
		WindowDays:       windowDays,
		SampleSize:       len(records),
		ByClassification: make(map[string]int),
		ByStatus:         make(map[string]int),
		BySeverity:       make(map[string]int),
		GeneratedAt:      time.Now().UTC(),
	}

	states := make(map[string]int)
	for _, rec := range records {
		if rec.Classification != "" {
			summary.ByClassification[rec.Classification]++
		}
		if rec.Status != "" {
			summary.ByStatus[rec.Status]++
		}
		summary.BySeverity[classify.RecallSeverity(rec.Classification).String()]++
		if rec.State != "" {
			states[rec.State]++
		}
	}

	summary.TopStates = topStates(states, topStateCount)
	return summary
}

// topStates ranks states by count descending, alphabetical on ties so the
// output is deterministic.
func topStates(counts map[string]int, n int) []StateCount {
	ranked := make([]StateCount, 0, len(counts))
	for state, count := range counts {
		ranked = append(ranked, StateCount{State: state, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].State < ranked[j].State
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
