package postgres

import (
	"database/sql"
	"time"
)

type rosterTableModel struct {
	ID            string         `db:"id"`
	UserID        string         `db:"user_id"`
	Name          string         `db:"name"`
	CaptainID     sql.NullString `db:"captain_id"`
	ViceCaptainID sql.NullString `db:"vice_captain_id"`
	TotalCost     int64          `db:"total_cost"`
	Budget        int64          `db:"budget"`
	Gameweek      int            `db:"gameweek"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

type rosterPickTableModel struct {
	RosterID string `db:"roster_id"`
	Slot     int    `db:"slot"`
	PlayerID string `db:"player_id"`
	ClubID   string `db:"club_id"`
	Position string `db:"position"`
	Price    int64  `db:"price"`
}
