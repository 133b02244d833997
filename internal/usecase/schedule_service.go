package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avsfam/firstgoal/internal/domain/game"
)

// ScheduleService serves the game schedule and the clock-policy reads the
// presentation layer needs.
type ScheduleService struct {
	gameRepo game.Repository
	window   time.Duration
	now      func() time.Time
}

func NewScheduleService(gameRepo game.Repository, inProgressWindow time.Duration) *ScheduleService {
	if inProgressWindow <= 0 {
		inProgressWindow = game.DefaultInProgressWindow
	}
	return &ScheduleService{
		gameRepo: gameRepo,
		window:   inProgressWindow,
		now:      time.Now,
	}
}

// List returns all games in start-time order.
func (s *ScheduleService) List(ctx context.Context) ([]game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.List")
	defer span.End()

	games, err := s.gameRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}

	return games, nil
}

// Next returns the single nearest game still open for predictions.
func (s *ScheduleService) Next(ctx context.Context) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.Next")
	defer span.End()

	games, err := s.gameRepo.List(ctx)
	if err != nil {
		return game.Game{}, fmt.Errorf("list games for next: %w", err)
	}

	next, ok := game.NextPredictable(games, s.now().UTC())
	if !ok {
		return game.Game{}, fmt.Errorf("%w: no upcoming game", ErrNotFound)
	}

	return next, nil
}

func (s *ScheduleService) GetByID(ctx context.Context, gameID string) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.GetByID")
	defer span.End()

	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return game.Game{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}

	item, exists, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return game.Game{}, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return game.Game{}, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}

	return item, nil
}

// ListPastUnverified returns completed games still awaiting verification,
// oldest first. Used by the admin surface and the sweeper.
func (s *ScheduleService) ListPastUnverified(ctx context.Context) ([]game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.ListPastUnverified")
	defer span.End()

	games, err := s.gameRepo.ListUnverifiedBefore(ctx, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("list past unverified games: %w", err)
	}

	return games, nil
}

// Phase classifies a game against the configured in-progress window.
func (s *ScheduleService) Phase(g game.Game) game.Phase {
	return g.Phase(s.now().UTC(), s.window)
}
