package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/fpl-hub/internal/domain/league"
	"github.com/riskibarqy/fpl-hub/internal/domain/roster"
	"github.com/riskibarqy/fpl-hub/internal/platform/id"
)

type LeagueRepository struct {
	store *Store
}

func NewLeagueRepository(store *Store) *LeagueRepository {
	return &LeagueRepository{store: store}
}

func (r *LeagueRepository) Create(_ context.Context, item league.League) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.leagues[item.ID]; ok {
		return fmt.Errorf("league %s already exists", item.ID)
	}
	r.store.leagues[item.ID] = league.Clone(item)
	r.store.leagueOrder = append(r.store.leagueOrder, item.ID)
	return nil
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID id.ID) (league.League, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.leagues[leagueID]
	if !ok {
		return league.League{}, false, nil
	}
	return league.Clone(item), true, nil
}

func (r *LeagueRepository) List(_ context.Context) ([]league.League, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]league.League, 0, len(r.store.leagueOrder))
	for _, lid := range r.store.leagueOrder {
		out = append(out, league.Clone(r.store.leagues[lid]))
	}
	return out, nil
}

func (r *LeagueRepository) ListByRoster(_ context.Context, rosterID id.ID) ([]league.League, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]league.League, 0)
	for _, lid := range r.store.leagueOrder {
		item := r.store.leagues[lid]
		if item.HasRoster(rosterID) {
			out = append(out, league.Clone(item))
		}
	}
	return out, nil
}

// Mutate runs fn on a private copy under the store lock and only stores it
// when fn succeeds and every new entry references a stored roster.
func (r *LeagueRepository) Mutate(_ context.Context, leagueID id.ID, fn league.MutateFunc) (league.League, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.leagues[leagueID]
	if !ok {
		return league.League{}, league.ErrLeagueNotFound
	}

	working := league.Clone(current)
	if err := fn(&working); err != nil {
		return league.League{}, err
	}

	for _, e := range working.Entries {
		if current.HasRoster(e.RosterID) {
			continue
		}
		if _, exists := r.store.rosters[e.RosterID]; !exists {
			return league.League{}, fmt.Errorf("%w: roster=%s", roster.ErrRosterNotFound, e.RosterID)
		}
	}

	r.store.leagues[leagueID] = league.Clone(working)
	return working, nil
}

func (r *LeagueRepository) Delete(_ context.Context, leagueID id.ID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.leagues[leagueID]; !ok {
		return league.ErrLeagueNotFound
	}
	delete(r.store.leagues, leagueID)
	r.store.leagueOrder = removeID(r.store.leagueOrder, leagueID)
	return nil
}
