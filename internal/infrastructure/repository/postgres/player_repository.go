package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/avsfam/firstgoal/internal/domain/player"
	idgen "github.com/avsfam/firstgoal/internal/platform/id"
	qb "github.com/avsfam/firstgoal/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db  *sqlx.DB
	ids idgen.Generator
}

var _ player.Repository = (*PlayerRepository)(nil)

func NewPlayerRepository(db *sqlx.DB, ids idgen.Generator) *PlayerRepository {
	if ids == nil {
		ids = idgen.NewRandomGenerator()
	}
	return &PlayerRepository{db: db, ids: ids}
}

func (r *PlayerRepository) ListActive(ctx context.Context) ([]player.Player, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.Eq("is_active", true)).
		OrderBy("CASE position WHEN 'Center' THEN 1 WHEN 'Left Wing' THEN 2 WHEN 'Right Wing' THEN 3 WHEN 'Defense' THEN 4 WHEN 'Goalie' THEN 5 ELSE 99 END", "number", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list active players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list active players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerFromRow(row))
	}
	return out, nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.Eq("id", playerID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player: %w", err)
	}

	return playerFromRow(row), true, nil
}

func (r *PlayerRepository) DeactivateAll(ctx context.Context) error {
	query, args, err := qb.Update("players").
		Set("is_active", false).
		SetExpr("updated_at", "NOW()").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build deactivate players query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("deactivate players: %w", err)
	}
	return nil
}

// UpsertMany keys on (name, number, position) so re-syncing the same roster
// reuses existing rows and the predictions pointing at them.
func (r *PlayerRepository) UpsertMany(ctx context.Context, players []player.Player) error {
	if len(players) == 0 {
		return nil
	}

	builder := qb.InsertInto("players").
		Columns("id", "name", "number", "position", "is_active")
	for _, p := range players {
		id := p.ID
		if id == "" {
			generated, err := r.ids.NewID()
			if err != nil {
				return fmt.Errorf("generate player id: %w", err)
			}
			id = generated
		}
		builder.Values(id, p.Name, p.Number, string(p.Position), p.IsActive)
	}
	query, args, err := builder.
		Suffix("ON CONFLICT (name, number, position) DO UPDATE SET is_active = EXCLUDED.is_active, updated_at = NOW()").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert players query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert players: %w", err)
	}
	return nil
}

func playerFromRow(row playerTableModel) player.Player {
	return player.Player{
		ID:       row.ID,
		Name:     row.Name,
		Number:   row.Number,
		Position: player.Position(row.Position),
		IsActive: row.IsActive,
	}
}
