package postgres

import (
	"slices"
	"testing"
	"time"

	"github.com/riskibarqy/fpl-hub/internal/domain/league"
	"github.com/riskibarqy/fpl-hub/internal/platform/id"
)

func TestDiffEntries(t *testing.T) {
	joined := time.Date(2026, 8, 20, 18, 0, 0, 0, time.UTC)
	later := joined.Add(time.Hour)
	entry := func(rid string, points, rank int, at time.Time) league.Entry {
		return league.Entry{RosterID: id.ID(rid), UserID: "u-" + rid, Points: points, Rank: rank, JoinedAt: at}
	}
	base := []league.Entry{entry("1", 10, 1, joined), entry("2", 5, 2, joined)}

	tests := []struct {
		name     string
		after    []league.Entry
		inserted []string
		updated  []string
		removed  []string
	}{
		{
			name:  "no change",
			after: base,
		},
		{
			name:     "one join",
			after:    append(slices.Clone(base), entry("3", 0, 0, later)),
			inserted: []string{"3"},
		},
		{
			name:    "one leave",
			after:   []league.Entry{entry("2", 5, 2, joined)},
			removed: []string{"1"},
		},
		{
			name:    "points change",
			after:   []league.Entry{entry("1", 10, 2, joined), entry("2", 30, 1, joined)},
			updated: []string{"1", "2"},
		},
		{
			name:     "leave then rejoin",
			after:    []league.Entry{entry("2", 5, 2, joined), entry("1", 0, 0, later)},
			inserted: []string{"1"},
			removed:  []string{"1"},
		},
		{
			name:     "leave and another join",
			after:    []league.Entry{entry("1", 10, 1, joined), entry("4", 0, 0, later)},
			inserted: []string{"4"},
			removed:  []string{"2"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := diffEntries(base, tc.after)

			if ids := entryIDs(got.inserted); !slices.Equal(ids, tc.inserted) {
				t.Fatalf("unexpected inserts: got %v want %v", ids, tc.inserted)
			}
			if ids := entryIDs(got.updated); !slices.Equal(ids, tc.updated) {
				t.Fatalf("unexpected updates: got %v want %v", ids, tc.updated)
			}
			var removed []string
			for _, rid := range got.removed {
				removed = append(removed, rid.String())
			}
			if !slices.Equal(removed, tc.removed) {
				t.Fatalf("unexpected removals: got %v want %v", removed, tc.removed)
			}
		})
	}
}

func TestDiffEntries_InsertKeepsJoinOrder(t *testing.T) {
	at := time.Date(2026, 8, 20, 18, 0, 0, 0, time.UTC)
	after := []league.Entry{
		{RosterID: "7", JoinedAt: at},
		{RosterID: "3", JoinedAt: at.Add(time.Second)},
	}

	got := diffEntries(nil, after)
	if ids := entryIDs(got.inserted); !slices.Equal(ids, []string{"7", "3"}) {
		t.Fatalf("unexpected insert order: %v", ids)
	}
}

func entryIDs(entries []league.Entry) []string {
	var out []string
	for _, e := range entries {
		out = append(out, e.RosterID.String())
	}
	return out
}
