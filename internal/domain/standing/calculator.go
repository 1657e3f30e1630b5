package standing

import (
	"sort"
	"time"

	"github.com/riskibarqy/fpl-hub/internal/domain/league"
	"github.com/riskibarqy/fpl-hub/internal/platform/id"
)

// Standing is one ranked row of a league table.
type Standing struct {
	Rank       int
	RosterID   id.ID
	UserID     string
	RosterName string
	Points     int
	JoinedAt   time.Time
}

// Calculate orders entries by points descending. Entries must be in join
// order; ties keep it, so the earlier joiner ranks higher. Ranks are 1-based
// positions and the input is not modified.
func Calculate(entries []league.Entry) []Standing {
	out := make([]Standing, 0, len(entries))
	for _, e := range entries {
		out = append(out, Standing{
			RosterID:   e.RosterID,
			UserID:     e.UserID,
			RosterName: e.RosterName,
			Points:     e.Points,
			JoinedAt:   e.JoinedAt,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Points > out[j].Points
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// Ranks indexes the rank of every roster in standings.
func Ranks(standings []Standing) map[id.ID]int {
	out := make(map[id.ID]int, len(standings))
	for _, s := range standings {
		out[s.RosterID] = s.Rank
	}
	return out
}
