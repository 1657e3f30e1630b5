package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/fpl-hub/internal/domain/league"
	"github.com/riskibarqy/fpl-hub/internal/domain/roster"
	"github.com/riskibarqy/fpl-hub/internal/platform/id"
	"github.com/riskibarqy/fpl-hub/internal/platform/money"
)

const (
	leagueSelectColumns = `id, name, format, entry_fee, capacity, prize_pool, status, gameweek, created_by, created_at, updated_at, started_at, completed_at`
	entrySelectColumns  = `league_id, roster_id, user_id, roster_name, points, rank, joined_at`
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) Create(ctx context.Context, item league.League) error {
	const insertQuery = `
INSERT INTO leagues (id, name, format, entry_fee, capacity, prize_pool, status, gameweek, created_by, created_at, updated_at, started_at, completed_at)
VALUES (:id, :name, :format, :entry_fee, :capacity, :prize_pool, :status, :gameweek, :created_by, :created_at, :updated_at, :started_at, :completed_at)`

	if _, err := r.db.NamedExecContext(ctx, insertQuery, leagueRow(item)); err != nil {
		return crerr.Wrapf(err, "insert league %s", item.ID)
	}
	return nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID id.ID) (league.League, bool, error) {
	query := `SELECT ` + leagueSelectColumns + ` FROM leagues WHERE id = $1`

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, leagueID.String()); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, crerr.Wrapf(err, "get league %s", leagueID)
	}

	items, err := attachEntries(ctx, r.db, []leagueTableModel{row})
	if err != nil {
		return league.League{}, false, err
	}
	return items[0], true, nil
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	query := `SELECT ` + leagueSelectColumns + ` FROM leagues ORDER BY created_at, id`

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, crerr.Wrap(err, "list leagues")
	}
	return attachEntries(ctx, r.db, rows)
}

func (r *LeagueRepository) ListByRoster(ctx context.Context, rosterID id.ID) ([]league.League, error) {
	query := `SELECT ` + leagueSelectColumns + ` FROM leagues
WHERE id IN (SELECT league_id FROM league_entries WHERE roster_id = $1)
ORDER BY created_at, id`

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, rosterID.String()); err != nil {
		return nil, crerr.Wrapf(err, "list leagues of roster %s", rosterID)
	}
	return attachEntries(ctx, r.db, rows)
}

// Mutate locks the league row for the length of the transaction. Concurrent
// mutations of the same league queue on that lock; other leagues are
// unaffected.
func (r *LeagueRepository) Mutate(ctx context.Context, leagueID id.ID, fn league.MutateFunc) (league.League, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return league.League{}, crerr.Wrap(err, "begin tx for league mutation")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `SELECT ` + leagueSelectColumns + ` FROM leagues WHERE id = $1 FOR UPDATE`
	var row leagueTableModel
	if err := tx.GetContext(ctx, &row, query, leagueID.String()); err != nil {
		if isNotFound(err) {
			return league.League{}, league.ErrLeagueNotFound
		}
		return league.League{}, crerr.Wrapf(err, "lock league %s", leagueID)
	}

	items, err := attachEntries(ctx, tx, []leagueTableModel{row})
	if err != nil {
		return league.League{}, err
	}
	current := items[0]

	working := league.Clone(current)
	if err := fn(&working); err != nil {
		return league.League{}, err
	}

	if err := persistLeagueChanges(ctx, tx, current, working); err != nil {
		return league.League{}, err
	}
	if err := tx.Commit(); err != nil {
		return league.League{}, crerr.Wrapf(err, "commit league %s", leagueID)
	}
	return working, nil
}

// Delete removes the league; entries go with it through ON DELETE CASCADE.
func (r *LeagueRepository) Delete(ctx context.Context, leagueID id.ID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM leagues WHERE id = $1`, leagueID.String())
	if err != nil {
		return crerr.Wrapf(err, "delete league %s", leagueID)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return league.ErrLeagueNotFound
	}
	return nil
}

func persistLeagueChanges(ctx context.Context, tx *sqlx.Tx, before, after league.League) error {
	const updateLeagueQuery = `
UPDATE leagues
SET name = :name,
    format = :format,
    entry_fee = :entry_fee,
    capacity = :capacity,
    prize_pool = :prize_pool,
    status = :status,
    gameweek = :gameweek,
    updated_at = :updated_at,
    started_at = :started_at,
    completed_at = :completed_at
WHERE id = :id`

	if _, err := tx.NamedExecContext(ctx, updateLeagueQuery, leagueRow(after)); err != nil {
		return crerr.Wrapf(err, "update league %s", after.ID)
	}

	changes := diffEntries(before.Entries, after.Entries)
	for _, e := range changes.updated {
		const updateEntryQuery = `UPDATE league_entries SET points = $1, rank = $2 WHERE league_id = $3 AND roster_id = $4`
		if _, err := tx.ExecContext(ctx, updateEntryQuery, e.Points, e.Rank, after.ID.String(), e.RosterID.String()); err != nil {
			return crerr.Wrapf(err, "update entry %s", e.RosterID)
		}
	}

	if len(changes.removed) > 0 {
		removed := make([]string, 0, len(changes.removed))
		for _, rid := range changes.removed {
			removed = append(removed, rid.String())
		}
		const deleteEntriesQuery = `DELETE FROM league_entries WHERE league_id = $1 AND roster_id = ANY($2)`
		if _, err := tx.ExecContext(ctx, deleteEntriesQuery, after.ID.String(), pq.Array(removed)); err != nil {
			return crerr.Wrap(err, "delete league entries")
		}
	}

	inserted := make([]leagueEntryTableModel, 0, len(changes.inserted))
	for _, e := range changes.inserted {
		inserted = append(inserted, entryRow(after.ID, e))
	}
	if len(inserted) > 0 {
		const insertEntriesQuery = `
INSERT INTO league_entries (league_id, roster_id, user_id, roster_name, points, rank, joined_at)
VALUES (:league_id, :roster_id, :user_id, :roster_name, :points, :rank, :joined_at)`
		if _, err := tx.NamedExecContext(ctx, insertEntriesQuery, inserted); err != nil {
			if isForeignKeyViolation(err) {
				return crerr.Wrapf(roster.ErrRosterNotFound, "insert entry into league %s", after.ID)
			}
			return crerr.Wrap(err, "insert league entries")
		}
	}
	return nil
}

type entryChanges struct {
	inserted []league.Entry
	updated  []league.Entry
	removed  []id.ID
}

// diffEntries turns a mutation of a league's entries into row operations.
// Deletes run before inserts, so an entry that left and joined again inside
// one mutation is removed and inserted anew and takes a fresh seq.
func diffEntries(before, after []league.Entry) entryChanges {
	previous := make(map[id.ID]league.Entry, len(before))
	for _, e := range before {
		previous[e.RosterID] = e
	}
	present := make(map[id.ID]struct{}, len(after))

	var changes entryChanges
	for _, e := range after {
		present[e.RosterID] = struct{}{}
		old, existed := previous[e.RosterID]
		switch {
		case !existed:
			changes.inserted = append(changes.inserted, e)
		case !old.JoinedAt.Equal(e.JoinedAt) || old.UserID != e.UserID:
			changes.removed = append(changes.removed, e.RosterID)
			changes.inserted = append(changes.inserted, e)
		case old.Points != e.Points || old.Rank != e.Rank:
			changes.updated = append(changes.updated, e)
		}
	}

	for _, e := range before {
		if _, ok := present[e.RosterID]; !ok {
			changes.removed = append(changes.removed, e.RosterID)
		}
	}
	return changes
}

func attachEntries(ctx context.Context, q sqlx.QueryerContext, rows []leagueTableModel) ([]league.League, error) {
	out := make([]league.League, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	leagueIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		leagueIDs = append(leagueIDs, row.ID)
	}

	query := `SELECT ` + entrySelectColumns + ` FROM league_entries WHERE league_id = ANY($1) ORDER BY league_id, seq`
	var entryRows []leagueEntryTableModel
	if err := sqlx.SelectContext(ctx, q, &entryRows, query, pq.Array(leagueIDs)); err != nil {
		return nil, crerr.Wrap(err, "list league entries")
	}

	entriesByLeague := make(map[string][]league.Entry, len(rows))
	for _, e := range entryRows {
		entriesByLeague[e.LeagueID] = append(entriesByLeague[e.LeagueID], league.Entry{
			RosterID:   parseStoredID(e.RosterID),
			UserID:     e.UserID,
			RosterName: e.RosterName,
			Points:     e.Points,
			Rank:       e.Rank,
			JoinedAt:   e.JoinedAt,
		})
	}

	for _, row := range rows {
		out = append(out, league.League{
			ID:          parseStoredID(row.ID),
			Name:        row.Name,
			Format:      league.Format(row.Format),
			EntryFee:    money.Amount(row.EntryFee),
			Capacity:    row.Capacity,
			PrizePool:   money.Amount(row.PrizePool),
			Status:      league.Status(row.Status),
			Gameweek:    row.Gameweek,
			CreatedBy:   row.CreatedBy,
			Entries:     entriesByLeague[row.ID],
			CreatedAt:   row.CreatedAt,
			UpdatedAt:   row.UpdatedAt,
			StartedAt:   row.StartedAt,
			CompletedAt: row.CompletedAt,
		})
	}
	return out, nil
}

func leagueRow(item league.League) leagueTableModel {
	return leagueTableModel{
		ID:          item.ID.String(),
		Name:        item.Name,
		Format:      string(item.Format),
		EntryFee:    int64(item.EntryFee),
		Capacity:    item.Capacity,
		PrizePool:   int64(item.PrizePool),
		Status:      string(item.Status),
		Gameweek:    item.Gameweek,
		CreatedBy:   item.CreatedBy,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
		StartedAt:   item.StartedAt,
		CompletedAt: item.CompletedAt,
	}
}

func entryRow(leagueID id.ID, e league.Entry) leagueEntryTableModel {
	return leagueEntryTableModel{
		LeagueID:   leagueID.String(),
		RosterID:   e.RosterID.String(),
		UserID:     e.UserID,
		RosterName: e.RosterName,
		Points:     e.Points,
		Rank:       e.Rank,
		JoinedAt:   e.JoinedAt,
	}
}
