package postgres

import "time"

type leagueTableModel struct {
	ID          string     `db:"id"`
	Name        string     `db:"name"`
	Format      string     `db:"format"`
	EntryFee    int64      `db:"entry_fee"`
	Capacity    int        `db:"capacity"`
	PrizePool   int64      `db:"prize_pool"`
	Status      string     `db:"status"`
	Gameweek    int        `db:"gameweek"`
	CreatedBy   string     `db:"created_by"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	StartedAt   *time.Time `db:"started_at"`
	CompletedAt *time.Time `db:"completed_at"`
}

// leagueEntryTableModel rows are ordered by seq, an identity column that
// records join order.
type leagueEntryTableModel struct {
	LeagueID   string    `db:"league_id"`
	RosterID   string    `db:"roster_id"`
	UserID     string    `db:"user_id"`
	RosterName string    `db:"roster_name"`
	Points     int       `db:"points"`
	Rank       int       `db:"rank"`
	JoinedAt   time.Time `db:"joined_at"`
}
