package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/avsfam/firstgoal/internal/domain/player"
)

// RosterService serves the selectable roster.
type RosterService struct {
	playerRepo player.Repository
}

func NewRosterService(playerRepo player.Repository) *RosterService {
	return &RosterService{playerRepo: playerRepo}
}

// ListActive returns the current roster in position-then-number order.
func (s *RosterService) ListActive(ctx context.Context) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ListActive")
	defer span.End()

	players, err := s.playerRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active players: %w", err)
	}

	return players, nil
}

func (s *RosterService) GetByID(ctx context.Context, playerID string) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.GetByID")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return player.Player{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	item, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	return item, nil
}
