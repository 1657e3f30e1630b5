package cache

import (
	"context"
	"sort"
	"strings"

	"github.com/riskibarqy/fpl-hub/internal/domain/player"
	basecache "github.com/riskibarqy/fpl-hub/internal/platform/cache"
	"github.com/riskibarqy/fpl-hub/internal/platform/id"
)

const (
	playerListKey     = "player:list"
	playerByIDsPrefix = "player:ids:"
)

// PlayerRepository is a read-through cache in front of the player catalog.
// The catalog is read-only for the service, so entries only expire by TTL.
type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	v, err := r.cache.GetOrLoad(ctx, playerListKey, func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return append([]player.Player(nil), items...), nil
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []id.ID) ([]player.Player, error) {
	if len(playerIDs) == 0 {
		return []player.Player{}, nil
	}

	requested := append([]id.ID(nil), playerIDs...)
	v, err := r.cache.GetOrLoad(ctx, playerIDsKey(requested), func(ctx context.Context) (any, error) {
		items, err := r.next.GetByIDs(ctx, requested)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return append([]player.Player(nil), items...), nil
}

// playerIDsKey is order-insensitive so the same squad submitted in a
// different order hits the same entry.
func playerIDsKey(playerIDs []id.ID) string {
	keys := make([]string, 0, len(playerIDs))
	for _, pid := range playerIDs {
		keys = append(keys, pid.String())
	}
	sort.Strings(keys)
	return playerByIDsPrefix + strings.Join(keys, ",")
}
