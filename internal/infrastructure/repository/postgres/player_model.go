package postgres

import "time"

type playerTableModel struct {
	ID        string    `db:"id"`
	ClubID    string    `db:"club_id"`
	ClubName  string    `db:"club_name"`
	Name      string    `db:"name"`
	Position  string    `db:"position"`
	Price     int64     `db:"price"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
