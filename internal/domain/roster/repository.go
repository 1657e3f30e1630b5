package roster

import (
	"context"
	"errors"

	"github.com/riskibarqy/fpl-hub/internal/platform/id"
)

var (
	ErrRosterNotFound = errors.New("roster not found")
	// ErrRosterInUse is returned when deleting a roster that still holds league entries.
	ErrRosterInUse = errors.New("roster has active league entries")
)

// Repository describes roster persistence needs from use cases.
// Delete must check for league entries and remove the roster atomically.
type Repository interface {
	GetByID(ctx context.Context, rosterID id.ID) (Roster, bool, error)
	ListByUser(ctx context.Context, userID string) ([]Roster, error)
	Create(ctx context.Context, r Roster) error
	Update(ctx context.Context, r Roster) error
	Delete(ctx context.Context, rosterID id.ID) error
}
