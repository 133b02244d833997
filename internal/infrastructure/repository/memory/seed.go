package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/avsfam/firstgoal/internal/domain/game"
	"github.com/avsfam/firstgoal/internal/domain/player"
)

// Seed loads a starter roster and slate so a local run has something to
// predict against before the first feed sync.
func (s *Store) Seed(ctx context.Context) error {
	players := []player.Player{
		{Name: "Nathan MacKinnon", Number: 29, Position: player.PositionCenter, IsActive: true},
		{Name: "Cale Makar", Number: 8, Position: player.PositionDefense, IsActive: true},
		{Name: "Mikko Rantanen", Number: 96, Position: player.PositionRightWing, IsActive: true},
		{Name: "Valeri Nichushkin", Number: 13, Position: player.PositionRightWing, IsActive: true},
		{Name: "Artturi Lehkonen", Number: 62, Position: player.PositionLeftWing, IsActive: true},
		{Name: "Devon Toews", Number: 7, Position: player.PositionDefense, IsActive: true},
		{Name: "Casey Mittelstadt", Number: 37, Position: player.PositionCenter, IsActive: true},
		{Name: "Ross Colton", Number: 20, Position: player.PositionCenter, IsActive: true},
		{Name: "Alexandar Georgiev", Number: 40, Position: player.PositionGoalie, IsActive: true},
	}
	if err := s.Players().UpsertMany(ctx, players); err != nil {
		return fmt.Errorf("seed players: %w", err)
	}

	tonight := time.Now().UTC().Truncate(time.Hour).Add(6 * time.Hour)
	games := []game.Game{
		{Opponent: "Vegas Golden Knights", StartTime: tonight, IsHome: true, Location: "Ball Arena"},
		{Opponent: "Dallas Stars", StartTime: tonight.Add(48 * time.Hour), IsHome: false, Location: "American Airlines Center"},
		{Opponent: "Winnipeg Jets", StartTime: tonight.Add(96 * time.Hour), IsHome: true, Location: "Ball Arena"},
	}
	if err := s.Games().InsertMany(ctx, games); err != nil {
		return fmt.Errorf("seed games: %w", err)
	}
	return nil
}
