package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/avsfam/firstgoal/internal/domain/leaderboard"
)

type LeaderboardRepository struct {
	db *sqlx.DB
}

var _ leaderboard.Repository = (*LeaderboardRepository)(nil)

func NewLeaderboardRepository(db *sqlx.DB) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

type leaderboardRowModel struct {
	UserID             string    `db:"user_id"`
	Username           string    `db:"username"`
	Points             int       `db:"points"`
	CorrectPredictions int       `db:"correct_predictions"`
	TotalPredictions   int       `db:"total_predictions"`
	UpdatedAt          time.Time `db:"updated_at"`
}

// Top joins profiles with accumulated points. Users who have predicted but
// never had a game settled rank with zero points.
func (r *LeaderboardRepository) Top(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	const query = `
SELECT pf.user_id,
       pf.username,
       COALESCE(lb.points, 0)              AS points,
       COALESCE(lb.correct_predictions, 0) AS correct_predictions,
       COALESCE(pc.total, 0)               AS total_predictions,
       GREATEST(pf.updated_at, COALESCE(lb.updated_at, pf.updated_at)) AS updated_at
FROM profiles pf
LEFT JOIN leaderboard lb ON lb.user_id = pf.user_id
LEFT JOIN (
    SELECT user_id, COUNT(*) AS total
    FROM predictions
    GROUP BY user_id
) pc ON pc.user_id = pf.user_id
ORDER BY points DESC, correct_predictions DESC, pf.user_id
LIMIT $1`

	var rows []leaderboardRowModel
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("select leaderboard: %w", err)
	}

	out := make([]leaderboard.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, leaderboard.Entry{
			UserID:             row.UserID,
			Username:           row.Username,
			Points:             row.Points,
			CorrectPredictions: row.CorrectPredictions,
			TotalPredictions:   row.TotalPredictions,
			UpdatedAt:          row.UpdatedAt,
		})
	}
	return out, nil
}
