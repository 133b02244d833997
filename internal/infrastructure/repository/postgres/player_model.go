package postgres

import "time"

type playerTableModel struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Number    int       `db:"number"`
	Position  string    `db:"position"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
