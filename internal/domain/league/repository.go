package league

import (
	"context"

	"github.com/riskibarqy/fpl-hub/internal/platform/id"
)

// MutateFunc changes a league inside its atomic section. Returning an error
// discards every change.
type MutateFunc func(l *League) error

// Repository describes league persistence needs from use cases.
//
// Mutate is the per-league serialization point: the read, fn and the write
// happen as one unit, so two concurrent joins can never both take the last
// slot. It returns ErrLeagueNotFound for unknown ids.
type Repository interface {
	Create(ctx context.Context, l League) error
	GetByID(ctx context.Context, leagueID id.ID) (League, bool, error)
	List(ctx context.Context) ([]League, error)
	ListByRoster(ctx context.Context, rosterID id.ID) ([]League, error)
	Mutate(ctx context.Context, leagueID id.ID, fn MutateFunc) (League, error)
	// Delete removes the league together with its entries.
	Delete(ctx context.Context, leagueID id.ID) error
}
