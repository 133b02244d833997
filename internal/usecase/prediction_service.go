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
	"github.com/avsfam/firstgoal/internal/domain/user"
	idgen "github.com/avsfam/firstgoal/internal/platform/id"
)

// PredictionService records first-goal picks. It reads games and players
// through the uncached repositories: the started-game check must see the
// store's current clock truth, not a value cached minutes ago.
type PredictionService struct {
	gameRepo       game.Repository
	playerRepo     player.Repository
	predictionRepo prediction.Repository
	profiles       *ProfileService
	ids            idgen.Generator
	now            func() time.Time
}

func NewPredictionService(
	gameRepo game.Repository,
	playerRepo player.Repository,
	predictionRepo prediction.Repository,
	profiles *ProfileService,
	ids idgen.Generator,
) *PredictionService {
	return &PredictionService{
		gameRepo:       gameRepo,
		playerRepo:     playerRepo,
		predictionRepo: predictionRepo,
		profiles:       profiles,
		ids:            ids,
		now:            time.Now,
	}
}

// Submit validates and stores one pick for the (user, game) pair. A second
// pick for the same pair is rejected, not replaced. The caller's profile is
// provisioned here when it does not exist yet: a pick can be an account's
// very first action, and settlement writes points against the profile row.
func (s *PredictionService) Submit(ctx context.Context, principal user.Principal, playerID, gameID string) (prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Submit")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	gameID = strings.TrimSpace(gameID)
	if playerID == "" {
		return prediction.Prediction{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	if gameID == "" {
		return prediction.Prediction{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(principal.UserID) == "" {
		return prediction.Prediction{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	g, exists, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("get game for prediction: %w", err)
	}
	if !exists {
		return prediction.Prediction{}, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}
	if g.HasStarted(s.now().UTC()) {
		return prediction.Prediction{}, fmt.Errorf("%w: %s game", ErrGameAlreadyStarted, g.Opponent)
	}

	p, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("get player for prediction: %w", err)
	}
	if !exists || !p.IsActive {
		return prediction.Prediction{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	// Resolve provisions on first contact, so the pick always has a profile
	// row behind it. Without one the insert would violate the user foreign
	// key on Postgres, and the standings would never show the user.
	profile, err := s.profiles.Resolve(ctx, principal)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("resolve profile for prediction: %w", err)
	}

	newID, err := s.ids.NewID()
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("generate prediction id: %w", err)
	}

	created, err := s.predictionRepo.Create(ctx, prediction.Prediction{
		ID:        newID,
		UserID:    profile.UserID,
		PlayerID:  playerID,
		GameID:    gameID,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, prediction.ErrDuplicate) {
			return prediction.Prediction{}, fmt.Errorf("%w: %s game", ErrDuplicatePrediction, g.Opponent)
		}
		return prediction.Prediction{}, fmt.Errorf("create prediction: %w", err)
	}

	return created, nil
}

func (s *PredictionService) ListByUser(ctx context.Context, userID string) ([]prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.ListByUser")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	items, err := s.predictionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list predictions by user: %w", err)
	}

	return items, nil
}
