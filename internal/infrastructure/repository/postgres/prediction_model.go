package postgres

import (
	"database/sql"
	"time"
)

type predictionTableModel struct {
	ID            string       `db:"id"`
	UserID        string       `db:"user_id"`
	PlayerID      string       `db:"player_id"`
	GameID        string       `db:"game_id"`
	CreatedAt     time.Time    `db:"created_at"`
	IsCorrect     sql.NullBool `db:"is_correct"`
	AdminVerified bool         `db:"admin_verified"`
}
