package postgres

import (
	"database/sql"
	"time"
)

type gameTableModel struct {
	ID              string         `db:"id"`
	Opponent        string         `db:"opponent"`
	StartTime       time.Time      `db:"start_time"`
	IsHome          bool           `db:"is_home"`
	Location        string         `db:"location"`
	Verified        bool           `db:"verified"`
	CorrectPlayerID sql.NullString `db:"correct_player_id"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}
