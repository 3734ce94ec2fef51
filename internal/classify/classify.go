// Package classify maps raw hazard and quality signals onto the normalized
// severity taxonomy. Every classification is pure and total: unknown or
// missing input yields an Unknown category rather than an error.
package classify

import (
	"strings"

	"github.com/platewatch/platewatch/internal/model"
)

// favorablePhrases mark a description as a low-risk subject. Checked before
// the unfavorable set: when both match, favorable wins. That ordering is a
// deliberate tie-break.
var favorablePhrases = []string{
	"best choice",
	"clean fifteen",
}

// unfavorablePhrases mark a description as a high-risk subject.
var unfavorablePhrases = []string{
	"avoid",
	"dirty dozen",
}

// Heuristic classifies a free-text description when no structured signal
// exists. Matching is case-insensitive substring membership; a description
// matching neither set is Moderate.
func Heuristic(description string) model.Category {
	lower := strings.ToLower(description)
	for _, phrase := range favorablePhrases {
		if strings.Contains(lower, phrase) {
			return model.CategoryLow
		}
	}
	for _, phrase := range unfavorablePhrases {
		if strings.Contains(lower, phrase) {
			return model.CategoryHigh
		}
	}
	return model.CategoryModerate
}

// RatingSeverity classifies a consumption or sustainability rating text
// onto the ordinal severity scale via the phrase heuristic. Favorable and
// blank ratings describe no hazard and map to SeverityUnknown.
func RatingSeverity(rating string) model.Severity {
	if strings.TrimSpace(rating) == "" {
		return model.SeverityUnknown
	}
	switch Heuristic(rating) {
	case model.CategoryHigh:
		return model.SeverityHigh
	case model.CategoryModerate:
		return model.SeverityModerate
	default:
		return model.SeverityUnknown
	}
}

// recallSeverity maps FDA enforcement classification codes onto the ordinal
// severity taxonomy. Keys are case-normalized.
var recallSeverity = map[string]model.Severity{
	"CLASS I":   model.SeverityCritical,
	"CLASS II":  model.SeverityHigh,
	"CLASS III": model.SeverityModerate,
}

// RecallSeverity maps an upstream recall classification code to a severity.
// Unrecognized codes map to SeverityUnknown.
func RecallSeverity(classification string) model.Severity {
	code := strings.ToUpper(strings.TrimSpace(classification))
	if sev, ok := recallSeverity[code]; ok {
		return sev
	}
	return model.SeverityUnknown
}

// Record returns a copy of the record with its severity assigned from the
// upstream classification code. Records without a code keep a severity
// already assigned at the boundary, such as an advisory rating classified
// by RatingSeverity.
func Record(rec model.HazardRecord) model.HazardRecord {
	if rec.Classification == "" && rec.Severity != model.SeverityUnknown {
		return rec
	}
	rec.Severity = RecallSeverity(rec.Classification)
	return rec
}

// Records classifies every record in the slice, returning a new slice.
func Records(recs []model.HazardRecord) []model.HazardRecord {
	out := make([]model.HazardRecord, len(recs))
	for i, rec := range recs {
		out[i] = Record(rec)
	}
	return out
}

// WorstSeverity returns the highest severity present in the records, or
// SeverityUnknown for an empty set.
func WorstSeverity(recs []model.HazardRecord) model.Severity {
	worst := model.SeverityUnknown
	for _, rec := range recs {
		if rec.Severity > worst {
			worst = rec.Severity
		}
	}
	return worst
}
