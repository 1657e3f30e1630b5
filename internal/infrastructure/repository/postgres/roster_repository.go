package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/fpl-hub/internal/domain/player"
	"github.com/riskibarqy/fpl-hub/internal/domain/roster"
	"github.com/riskibarqy/fpl-hub/internal/platform/id"
)

const rosterSelectColumns = `id, user_id, name, captain_id, vice_captain_id, total_cost, budget, gameweek, created_at, updated_at`

type RosterRepository struct {
	db *sqlx.DB
}

func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) GetByID(ctx context.Context, rosterID id.ID) (roster.Roster, bool, error) {
	query := `SELECT ` + rosterSelectColumns + ` FROM rosters WHERE id = $1`

	var row rosterTableModel
	if err := r.db.GetContext(ctx, &row, query, rosterID.String()); err != nil {
		if isNotFound(err) {
			return roster.Roster{}, false, nil
		}
		return roster.Roster{}, false, crerr.Wrapf(err, "get roster %s", rosterID)
	}

	items, err := r.attachPicks(ctx, []rosterTableModel{row})
	if err != nil {
		return roster.Roster{}, false, err
	}
	return items[0], true, nil
}

func (r *RosterRepository) ListByUser(ctx context.Context, userID string) ([]roster.Roster, error) {
	query := `SELECT ` + rosterSelectColumns + ` FROM rosters WHERE user_id = $1 ORDER BY created_at, id`

	var rows []rosterTableModel
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, crerr.Wrapf(err, "list rosters of user %s", userID)
	}
	return r.attachPicks(ctx, rows)
}

func (r *RosterRepository) Create(ctx context.Context, item roster.Roster) error {
	const insertQuery = `
INSERT INTO rosters (id, user_id, name, captain_id, vice_captain_id, total_cost, budget, gameweek, created_at, updated_at)
VALUES (:id, :user_id, :name, :captain_id, :vice_captain_id, :total_cost, :budget, :gameweek, :created_at, :updated_at)`

	return r.withTx(ctx, "create roster", func(tx *sqlx.Tx) error {
		if _, err := tx.NamedExecContext(ctx, insertQuery, rosterRow(item)); err != nil {
			if isUniqueViolation(err) {
				return crerr.Wrapf(err, "roster %s already exists", item.ID)
			}
			return crerr.Wrap(err, "insert roster")
		}
		return insertPicks(ctx, tx, item)
	})
}

// Update replaces the roster row and all of its picks in one transaction.
func (r *RosterRepository) Update(ctx context.Context, item roster.Roster) error {
	const updateQuery = `
UPDATE rosters
SET name = :name,
    captain_id = :captain_id,
    vice_captain_id = :vice_captain_id,
    total_cost = :total_cost,
    budget = :budget,
    gameweek = :gameweek,
    updated_at = :updated_at
WHERE id = :id`

	return r.withTx(ctx, "update roster", func(tx *sqlx.Tx) error {
		res, err := tx.NamedExecContext(ctx, updateQuery, rosterRow(item))
		if err != nil {
			return crerr.Wrap(err, "update roster")
		}
		if affected, err := res.RowsAffected(); err == nil && affected == 0 {
			return roster.ErrRosterNotFound
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM roster_picks WHERE roster_id = $1`, item.ID.String()); err != nil {
			return crerr.Wrap(err, "clear roster picks")
		}
		return insertPicks(ctx, tx, item)
	})
}

// Delete relies on the RESTRICT foreign key from league_entries, so the
// in-use check and the delete cannot interleave with a join.
func (r *RosterRepository) Delete(ctx context.Context, rosterID id.ID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rosters WHERE id = $1`, rosterID.String())
	if err != nil {
		if isForeignKeyViolation(err) {
			return crerr.Wrapf(roster.ErrRosterInUse, "delete roster %s", rosterID)
		}
		return crerr.Wrapf(err, "delete roster %s", rosterID)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return roster.ErrRosterNotFound
	}
	return nil
}

func (r *RosterRepository) withTx(ctx context.Context, op string, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return crerr.Wrapf(err, "begin tx for %s", op)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return crerr.Wrapf(err, "commit %s", op)
	}
	return nil
}

func (r *RosterRepository) attachPicks(ctx context.Context, rows []rosterTableModel) ([]roster.Roster, error) {
	out := make([]roster.Roster, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	rosterIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		rosterIDs = append(rosterIDs, row.ID)
	}

	const picksQuery = `
SELECT roster_id, slot, player_id, club_id, position, price
FROM roster_picks
WHERE roster_id = ANY($1)
ORDER BY roster_id, slot`

	var pickRows []rosterPickTableModel
	if err := r.db.SelectContext(ctx, &pickRows, picksQuery, pq.Array(rosterIDs)); err != nil {
		return nil, crerr.Wrap(err, "list roster picks")
	}

	picksByRoster := make(map[string][]roster.Pick, len(rows))
	for _, p := range pickRows {
		picksByRoster[p.RosterID] = append(picksByRoster[p.RosterID], roster.Pick{
			PlayerID: parseStoredID(p.PlayerID),
			ClubID:   p.ClubID,
			Position: player.Position(p.Position),
			Price:    p.Price,
		})
	}

	for _, row := range rows {
		out = append(out, roster.Roster{
			ID:            parseStoredID(row.ID),
			UserID:        row.UserID,
			Name:          row.Name,
			Picks:         picksByRoster[row.ID],
			CaptainID:     parseStoredID(row.CaptainID.String),
			ViceCaptainID: parseStoredID(row.ViceCaptainID.String),
			TotalCost:     row.TotalCost,
			Budget:        row.Budget,
			Gameweek:      row.Gameweek,
			CreatedAt:     row.CreatedAt,
			UpdatedAt:     row.UpdatedAt,
		})
	}
	return out, nil
}

func insertPicks(ctx context.Context, tx *sqlx.Tx, item roster.Roster) error {
	if len(item.Picks) == 0 {
		return nil
	}

	const insertPicksQuery = `
INSERT INTO roster_picks (roster_id, slot, player_id, club_id, position, price)
VALUES (:roster_id, :slot, :player_id, :club_id, :position, :price)`

	rows := make([]rosterPickTableModel, 0, len(item.Picks))
	for i, p := range item.Picks {
		rows = append(rows, rosterPickTableModel{
			RosterID: item.ID.String(),
			Slot:     i + 1,
			PlayerID: p.PlayerID.String(),
			ClubID:   p.ClubID,
			Position: string(p.Position),
			Price:    p.Price,
		})
	}
	if _, err := tx.NamedExecContext(ctx, insertPicksQuery, rows); err != nil {
		return crerr.Wrap(err, "insert roster picks")
	}
	return nil
}

func rosterRow(item roster.Roster) rosterTableModel {
	return rosterTableModel{
		ID:            item.ID.String(),
		UserID:        item.UserID,
		Name:          item.Name,
		CaptainID:     nullableID(item.CaptainID),
		ViceCaptainID: nullableID(item.ViceCaptainID),
		TotalCost:     item.TotalCost,
		Budget:        item.Budget,
		Gameweek:      item.Gameweek,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
}
