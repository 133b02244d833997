package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/avsfam/firstgoal/internal/domain/game"
	idgen "github.com/avsfam/firstgoal/internal/platform/id"
	qb "github.com/avsfam/firstgoal/internal/platform/querybuilder"
)

type GameRepository struct {
	db  *sqlx.DB
	ids idgen.Generator
}

var _ game.Repository = (*GameRepository)(nil)

func NewGameRepository(db *sqlx.DB, ids idgen.Generator) *GameRepository {
	if ids == nil {
		ids = idgen.NewRandomGenerator()
	}
	return &GameRepository{db: db, ids: ids}
}

func (r *GameRepository) List(ctx context.Context) ([]game.Game, error) {
	query, args, err := qb.Select("*").From("games").
		OrderBy("start_time", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list games query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, gameFromRow(row))
	}
	return out, nil
}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (game.Game, bool, error) {
	query, args, err := qb.Select("*").From("games").
		Where(qb.Eq("id", gameID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build get game query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("get game: %w", err)
	}

	return gameFromRow(row), true, nil
}

func (r *GameRepository) ListUnverifiedBefore(ctx context.Context, cutoff time.Time) ([]game.Game, error) {
	query, args, err := qb.Select("*").From("games").
		Where(
			qb.Eq("verified", false),
			qb.Lt("start_time", cutoff),
		).
		OrderBy("start_time", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list unverified games query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list unverified games: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, gameFromRow(row))
	}
	return out, nil
}

func (r *GameRepository) DeleteUnverifiedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	query, args, err := qb.DeleteFrom("games").
		Where(
			qb.Eq("verified", false),
			qb.Lt("start_time", cutoff),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build delete stale games query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete stale games: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted games: %w", err)
	}
	return int(affected), nil
}

// InsertMany keys on (start_time, opponent); fixtures already present are
// left untouched.
func (r *GameRepository) InsertMany(ctx context.Context, games []game.Game) error {
	if len(games) == 0 {
		return nil
	}

	builder := qb.InsertInto("games").
		Columns("id", "opponent", "start_time", "is_home", "location")
	for _, g := range games {
		id := g.ID
		if id == "" {
			generated, err := r.ids.NewID()
			if err != nil {
				return fmt.Errorf("generate game id: %w", err)
			}
			id = generated
		}
		builder.Values(id, g.Opponent, g.StartTime.UTC(), g.IsHome, g.Location)
	}
	query, args, err := builder.
		Suffix("ON CONFLICT (start_time, opponent) DO NOTHING").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert games query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert games: %w", err)
	}
	return nil
}

func gameFromRow(row gameTableModel) game.Game {
	return game.Game{
		ID:              row.ID,
		Opponent:        row.Opponent,
		StartTime:       row.StartTime,
		IsHome:          row.IsHome,
		Location:        row.Location,
		Verified:        row.Verified,
		CorrectPlayerID: row.CorrectPlayerID.String,
	}
}
