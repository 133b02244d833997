package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/avsfam/firstgoal/internal/domain/prediction"
	qb "github.com/avsfam/firstgoal/internal/platform/querybuilder"
)

type PredictionRepository struct {
	db *sqlx.DB
}

var _ prediction.Repository = (*PredictionRepository)(nil)

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) Create(ctx context.Context, p prediction.Prediction) (prediction.Prediction, error) {
	query, args, err := qb.InsertInto("predictions").
		Columns("id", "user_id", "player_id", "game_id", "created_at").
		Values(p.ID, p.UserID, p.PlayerID, p.GameID, p.CreatedAt.UTC()).
		ToSQL()
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("build insert prediction query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return prediction.Prediction{}, fmt.Errorf("%w: user=%s game=%s", prediction.ErrDuplicate, p.UserID, p.GameID)
		}
		return prediction.Prediction{}, fmt.Errorf("insert prediction: %w", err)
	}

	return p, nil
}

func (r *PredictionRepository) ListByUser(ctx context.Context, userID string) ([]prediction.Prediction, error) {
	return r.list(ctx, qb.Eq("user_id", userID))
}

func (r *PredictionRepository) ListByGame(ctx context.Context, gameID string) ([]prediction.Prediction, error) {
	return r.list(ctx, qb.Eq("game_id", gameID))
}

func (r *PredictionRepository) list(ctx context.Context, cond qb.Condition) ([]prediction.Prediction, error) {
	query, args, err := qb.Select("*").From("predictions").
		Where(cond).
		OrderBy("created_at DESC", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list predictions query: %w", err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, prediction.Prediction{
			ID:            row.ID,
			UserID:        row.UserID,
			PlayerID:      row.PlayerID,
			GameID:        row.GameID,
			CreatedAt:     row.CreatedAt,
			IsCorrect:     row.IsCorrect.Bool,
			AdminVerified: row.AdminVerified,
		})
	}
	return out, nil
}

// VerifyGame delegates the scoring transition to the verify_game_predictions
// database function, which marks the game, flags every pick, and applies the
// points deltas inside one transaction.
func (r *PredictionRepository) VerifyGame(ctx context.Context, gameID, scoringPlayerID string, policy prediction.PointsPolicy) error {
	const query = `SELECT verify_game_predictions($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, gameID, scoringPlayerID, policy.Correct, policy.Incorrect); err != nil {
		if isAlreadyVerifiedRaise(err) {
			return fmt.Errorf("%w: game=%s", prediction.ErrGameVerified, gameID)
		}
		return fmt.Errorf("verify game predictions: %w", err)
	}
	return nil
}
