package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/fpl-hub/internal/domain/player"
	"github.com/riskibarqy/fpl-hub/internal/platform/id"
)

const playerSelectColumns = `id, club_id, club_name, name, position, price, created_at, updated_at`

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	query := `SELECT ` + playerSelectColumns + ` FROM players ORDER BY position, id`

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, crerr.Wrap(err, "select players")
	}
	return playersFromRows(rows), nil
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []id.ID) ([]player.Player, error) {
	if len(playerIDs) == 0 {
		return []player.Player{}, nil
	}

	query := `SELECT ` + playerSelectColumns + ` FROM players WHERE id = ANY($1)`

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(idsToStrings(playerIDs))); err != nil {
		return nil, crerr.Wrapf(err, "select players by ids (%d)", len(playerIDs))
	}
	return playersFromRows(rows), nil
}

func playersFromRows(rows []playerTableModel) []player.Player {
	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, player.Player{
			ID:       parseStoredID(row.ID),
			ClubID:   row.ClubID,
			ClubName: row.ClubName,
			Name:     row.Name,
			Position: player.Position(row.Position),
			Price:    row.Price,
		})
	}
	return out
}
