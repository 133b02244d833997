package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avsfam/firstgoal/internal/domain/game"
	"github.com/avsfam/firstgoal/internal/domain/player"
	"github.com/avsfam/firstgoal/internal/domain/prediction"
	"github.com/avsfam/firstgoal/internal/platform/logging"
)

// VerificationService settles a finished game: it marks the actual first
// scorer and scores every pick for that game in one atomic step. Points are
// applied by the store, either to all affected users or to none.
type VerificationService struct {
	gameRepo       game.Repository
	playerRepo     player.Repository
	predictionRepo prediction.Repository
	policy         prediction.PointsPolicy
	invalidator    CacheInvalidator
	logger         *logging.Logger
	now            func() time.Time
}

func NewVerificationService(
	gameRepo game.Repository,
	playerRepo player.Repository,
	predictionRepo prediction.Repository,
	policy prediction.PointsPolicy,
	invalidator CacheInvalidator,
	logger *logging.Logger,
) *VerificationService {
	if invalidator == nil {
		invalidator = NewNoopCacheInvalidator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &VerificationService{
		gameRepo:       gameRepo,
		playerRepo:     playerRepo,
		predictionRepo: predictionRepo,
		policy:         policy,
		invalidator:    invalidator,
		logger:         logger,
		now:            time.Now,
	}
}

// Verify records scoringPlayerID as the game's first scorer and settles all
// picks for the game. Verifying twice is rejected, so points are never
// applied to the same game more than once.
func (s *VerificationService) Verify(ctx context.Context, gameID, scoringPlayerID string) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.VerificationService.Verify")
	defer span.End()

	gameID = strings.TrimSpace(gameID)
	scoringPlayerID = strings.TrimSpace(scoringPlayerID)
	if gameID == "" {
		return game.Game{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	if scoringPlayerID == "" {
		return game.Game{}, fmt.Errorf("%w: scoring player id is required", ErrInvalidInput)
	}

	g, exists, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return game.Game{}, fmt.Errorf("get game for verification: %w", err)
	}
	if !exists {
		return game.Game{}, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}
	if g.Verified {
		return game.Game{}, fmt.Errorf("%w: game=%s", ErrAlreadyVerified, gameID)
	}
	if !g.HasStarted(s.now().UTC()) {
		return game.Game{}, fmt.Errorf("%w: game=%s starts at %s", ErrGameNotStarted, gameID, g.StartTime.Format(time.RFC3339))
	}

	p, exists, err := s.playerRepo.GetByID(ctx, scoringPlayerID)
	if err != nil {
		return game.Game{}, fmt.Errorf("get scoring player: %w", err)
	}
	if !exists {
		return game.Game{}, fmt.Errorf("%w: player=%s", ErrNotFound, scoringPlayerID)
	}

	if err := s.predictionRepo.VerifyGame(ctx, gameID, scoringPlayerID, s.policy); err != nil {
		// A concurrent verification can slip in between the read above and
		// the atomic scoring step; the store's own guard catches it.
		if errors.Is(err, prediction.ErrGameVerified) {
			return game.Game{}, fmt.Errorf("%w: game=%s", ErrAlreadyVerified, gameID)
		}
		return game.Game{}, fmt.Errorf("verify game predictions: %w", err)
	}

	s.invalidator.InvalidateSchedule(ctx)
	s.invalidator.InvalidateLeaderboard(ctx)

	s.logger.InfoContext(ctx, "game verified",
		"gameID", gameID,
		"opponent", g.Opponent,
		"scorer", p.Name,
	)

	verified, _, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return game.Game{}, fmt.Errorf("reload verified game: %w", err)
	}
	return verified, nil
}

// ListUnverified returns past games still awaiting a scorer, oldest first.
func (s *VerificationService) ListUnverified(ctx context.Context) ([]game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.VerificationService.ListUnverified")
	defer span.End()

	games, err := s.gameRepo.ListUnverifiedBefore(ctx, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("list unverified games: %w", err)
	}
	return games, nil
}
