// Package rank turns a merged collection of hazard records into a unique,
// time-ordered, size-bounded result set.
package rank

import (
	"sort"

	"github.com/platewatch/platewatch/internal/model"
)

// DedupeAndRank groups records by identifier, orders the survivors by
// IssuedAt descending and truncates to limit. The input is never mutated.
//
// Dedup policy: when the same identifier appears more than once, the
// last-encountered instance in input order survives, at the position of the
// identifier's first appearance. Callers that want the richest instance to
// win must place it last. This mirrors map-overwrite semantics and is easy
// to get backwards; it is deliberate and relied upon.
//
// Ties on IssuedAt keep their original input order (stable sort). A limit
// of zero or less returns an empty slice.
func DedupeAndRank(records []model.HazardRecord, limit int) []model.HazardRecord {
	if limit <= 0 || len(records) == 0 {
		return []model.HazardRecord{}
	}

	slot := make(map[string]int, len(records))
	unique := make([]model.HazardRecord, 0, len(records))
	for _, rec := range records {
		if i, seen := slot[rec.Identifier]; seen {
			unique[i] = rec // last-encountered wins
			continue
		}
		slot[rec.Identifier] = len(unique)
		unique = append(unique, rec)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].IssuedAt.After(unique[j].IssuedAt)
	})

	if len(unique) > limit {
		unique = unique[:limit]
	}
	return unique
}
