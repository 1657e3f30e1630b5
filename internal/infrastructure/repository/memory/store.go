package memory

import (
	"sync"

	"github.com/riskibarqy/fpl-hub/internal/domain/league"
	"github.com/riskibarqy/fpl-hub/internal/domain/roster"
	"github.com/riskibarqy/fpl-hub/internal/platform/id"
)

// Store holds rosters and leagues behind one lock so that cross-aggregate
// checks (roster in use, entry references an existing roster) are atomic.
type Store struct {
	mu          sync.RWMutex
	rosters     map[id.ID]roster.Roster
	rosterOrder []id.ID
	leagues     map[id.ID]league.League
	leagueOrder []id.ID
}

func NewStore() *Store {
	return &Store{
		rosters: make(map[id.ID]roster.Roster),
		leagues: make(map[id.ID]league.League),
	}
}

// rosterInUse must be called with mu held.
func (s *Store) rosterInUse(rosterID id.ID) bool {
	for _, l := range s.leagues {
		if l.HasRoster(rosterID) {
			return true
		}
	}
	return false
}

func removeID(ids []id.ID, target id.ID) []id.ID {
	for i, v := range ids {
		if v == target {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}
