package player

import (
	"context"

	"github.com/riskibarqy/fpl-hub/internal/platform/id"
)

// Repository is the read-only PlayerCatalog contract. GetByIDs returns only
// the players it knows; callers detect missing ids by comparing lengths.
type Repository interface {
	List(ctx context.Context) ([]Player, error)
	GetByIDs(ctx context.Context, playerIDs []id.ID) ([]Player, error)
}
