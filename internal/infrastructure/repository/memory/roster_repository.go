package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/fpl-hub/internal/domain/roster"
	"github.com/riskibarqy/fpl-hub/internal/platform/id"
)

type RosterRepository struct {
	store *Store
}

func NewRosterRepository(store *Store) *RosterRepository {
	return &RosterRepository{store: store}
}

func (r *RosterRepository) GetByID(_ context.Context, rosterID id.ID) (roster.Roster, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.rosters[rosterID]
	if !ok {
		return roster.Roster{}, false, nil
	}
	return roster.Clone(item), true, nil
}

func (r *RosterRepository) ListByUser(_ context.Context, userID string) ([]roster.Roster, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]roster.Roster, 0)
	for _, rid := range r.store.rosterOrder {
		item := r.store.rosters[rid]
		if item.UserID == userID {
			out = append(out, roster.Clone(item))
		}
	}
	return out, nil
}

func (r *RosterRepository) Create(_ context.Context, item roster.Roster) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.rosters[item.ID]; ok {
		return fmt.Errorf("roster %s already exists", item.ID)
	}
	r.store.rosters[item.ID] = roster.Clone(item)
	r.store.rosterOrder = append(r.store.rosterOrder, item.ID)
	return nil
}

func (r *RosterRepository) Update(_ context.Context, item roster.Roster) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.rosters[item.ID]; !ok {
		return roster.ErrRosterNotFound
	}
	r.store.rosters[item.ID] = roster.Clone(item)
	return nil
}

func (r *RosterRepository) Delete(_ context.Context, rosterID id.ID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.rosters[rosterID]; !ok {
		return roster.ErrRosterNotFound
	}
	if r.store.rosterInUse(rosterID) {
		return fmt.Errorf("%w: roster=%s", roster.ErrRosterInUse, rosterID)
	}

	delete(r.store.rosters, rosterID)
	r.store.rosterOrder = removeID(r.store.rosterOrder, rosterID)
	return nil
}
