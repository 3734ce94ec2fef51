package rank

import (
	"reflect"
	"testing"
	"time"

	"github.com/platewatch/platewatch/internal/model"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDedupeAndRank_LastEncounteredWins(t *testing.T) {
	records := []model.HazardRecord{
		{Identifier: "R-100", Subject: "early", IssuedAt: date("2024-01-01")},
		{Identifier: "R-100", Subject: "late", IssuedAt: date("2024-06-01")},
	}

	got := DedupeAndRank(records, 10)
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if got[0].Subject != "late" || !got[0].IssuedAt.Equal(date("2024-06-01")) {
		t.Errorf("expected last-encountered instance to survive, got %+v", got[0])
	}
}

func TestDedupeAndRank_MostRecentFirst(t *testing.T) {
	records := []model.HazardRecord{
		{Identifier: "A", IssuedAt: date("2024-02-01")},
		{Identifier: "B", IssuedAt: date("2024-05-01")},
		{Identifier: "C", IssuedAt: date("2024-03-01")},
	}

	got := DedupeAndRank(records, 10)
	want := []string{"B", "C", "A"}
	for i, id := range want {
		if got[i].Identifier != id {
			t.Errorf("position %d: got %s, want %s", i, got[i].Identifier, id)
		}
	}
}

func TestDedupeAndRank_StableOnEqualTimestamps(t *testing.T) {
	ts := date("2024-04-01")
	records := []model.HazardRecord{
		{Identifier: "first", IssuedAt: ts},
		{Identifier: "second", IssuedAt: ts},
		{Identifier: "third", IssuedAt: ts},
	}

	got := DedupeAndRank(records, 10)
	want := []string{"first", "second", "third"}
	for i, id := range want {
		if got[i].Identifier != id {
			t.Errorf("position %d: got %s, want %s", i, got[i].Identifier, id)
		}
	}
}

func TestDedupeAndRank_Truncation(t *testing.T) {
	var records []model.HazardRecord
	for _, id := range []string{"A", "B", "C", "D", "E"} {
		records = append(records, model.HazardRecord{Identifier: id, IssuedAt: date("2024-01-01")})
	}

	if got := DedupeAndRank(records, 3); len(got) != 3 {
		t.Errorf("limit 3: got %d records", len(got))
	}
	if got := DedupeAndRank(records, 0); len(got) != 0 {
		t.Errorf("limit 0: got %d records", len(got))
	}
	if got := DedupeAndRank(records, -1); len(got) != 0 {
		t.Errorf("limit -1: got %d records", len(got))
	}
}

func TestDedupeAndRank_BoundedByDistinctIdentifiers(t *testing.T) {
	records := []model.HazardRecord{
		{Identifier: "A", IssuedAt: date("2024-01-01")},
		{Identifier: "A", IssuedAt: date("2024-01-02")},
		{Identifier: "B", IssuedAt: date("2024-01-03")},
	}

	got := DedupeAndRank(records, 100)
	if len(got) != 2 {
		t.Errorf("expected 2 distinct records, got %d", len(got))
	}
}

func TestDedupeAndRank_Idempotent(t *testing.T) {
	records := []model.HazardRecord{
		{Identifier: "A", IssuedAt: date("2024-02-01")},
		{Identifier: "B", IssuedAt: date("2024-05-01")},
		{Identifier: "A", IssuedAt: date("2024-03-01")},
		{Identifier: "C", IssuedAt: date("2024-03-01")},
	}

	once := DedupeAndRank(records, 10)
	twice := DedupeAndRank(once, 10)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestDedupeAndRank_DoesNotMutateInput(t *testing.T) {
	records := []model.HazardRecord{
		{Identifier: "B", IssuedAt: date("2024-05-01")},
		{Identifier: "A", IssuedAt: date("2024-02-01")},
	}
	snapshot := make([]model.HazardRecord, len(records))
	copy(snapshot, records)

	DedupeAndRank(records, 1)

	if !reflect.DeepEqual(records, snapshot) {
		t.Error("input slice was mutated")
	}
}

func TestDedupeAndRank_EmptyInput(t *testing.T) {
	if got := DedupeAndRank(nil, 5); len(got) != 0 {
		t.Errorf("expected empty result, got %d", len(got))
	}
}
