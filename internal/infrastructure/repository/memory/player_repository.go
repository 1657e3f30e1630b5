package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/fpl-hub/internal/domain/player"
	"github.com/riskibarqy/fpl-hub/internal/platform/id"
)

type PlayerRepository struct {
	mu      sync.RWMutex
	players []player.Player
	index   map[id.ID]player.Player
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	index := make(map[id.ID]player.Player, len(players))
	for _, p := range players {
		index[p.ID] = p
	}

	return &PlayerRepository{
		players: append([]player.Player(nil), players...),
		index:   index,
	}
}

func (r *PlayerRepository) List(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.players))
	out = append(out, r.players...)

	return out, nil
}

func (r *PlayerRepository) GetByIDs(_ context.Context, playerIDs []id.ID) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(playerIDs))
	for _, pid := range playerIDs {
		p, ok := r.index[pid]
		if !ok {
			continue
		}
		out = append(out, p)
	}

	return out, nil
}
