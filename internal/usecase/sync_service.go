package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/avsfam/firstgoal/internal/domain/game"
	"github.com/avsfam/firstgoal/internal/domain/player"
	"github.com/avsfam/firstgoal/internal/platform/logging"
)

// ScheduleFeed is the upstream source of roster and schedule truth.
type ScheduleFeed interface {
	FetchRoster(ctx context.Context) ([]player.Player, error)
	FetchSchedule(ctx context.Context) ([]game.Game, error)
}

// SyncResult reports how many records a sync pass landed.
type SyncResult struct {
	PlayersUpserted int
	GamesInserted   int
	GamesDeleted    int
}

// SyncService refreshes local roster and schedule data from the feed.
// Roster sync is a full replacement: every player is deactivated, then the
// feed's current roster is upserted back active, so traded or waived players
// drop off the pick list without losing their historical predictions.
type SyncService struct {
	feed        ScheduleFeed
	playerRepo  player.Repository
	gameRepo    game.Repository
	invalidator CacheInvalidator
	logger      *logging.Logger
	now         func() time.Time
}

func NewSyncService(
	feed ScheduleFeed,
	playerRepo player.Repository,
	gameRepo game.Repository,
	invalidator CacheInvalidator,
	logger *logging.Logger,
) *SyncService {
	if invalidator == nil {
		invalidator = NewNoopCacheInvalidator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SyncService{
		feed:        feed,
		playerRepo:  playerRepo,
		gameRepo:    gameRepo,
		invalidator: invalidator,
		logger:      logger,
		now:         time.Now,
	}
}

// SyncRoster replaces the active roster with the feed's current one.
func (s *SyncService) SyncRoster(ctx context.Context) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncRoster")
	defer span.End()

	players, err := s.feed.FetchRoster(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("%w: fetch roster: %v", ErrDependencyUnavailable, err)
	}

	result, err := s.applyRoster(ctx, players)
	if err != nil {
		return SyncResult{}, err
	}

	s.invalidator.InvalidateRoster(ctx)
	s.logger.InfoContext(ctx, "roster synced", "players", result.PlayersUpserted)
	return result, nil
}

// SyncSchedule drops stale unverified past games and inserts the feed's
// upcoming slate. Verified games are never touched: their scorer and the
// points already awarded stay put.
func (s *SyncService) SyncSchedule(ctx context.Context) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncSchedule")
	defer span.End()

	games, err := s.feed.FetchSchedule(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("%w: fetch schedule: %v", ErrDependencyUnavailable, err)
	}

	result, err := s.applySchedule(ctx, games)
	if err != nil {
		return SyncResult{}, err
	}

	s.invalidator.InvalidateSchedule(ctx)
	s.logger.InfoContext(ctx, "schedule synced",
		"inserted", result.GamesInserted,
		"deleted", result.GamesDeleted,
	)
	return result, nil
}

// SyncAll fetches roster and schedule concurrently, then applies both.
// The writes stay sequential so a feed failure on either side aborts the
// whole pass before anything is replaced.
func (s *SyncService) SyncAll(ctx context.Context) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncAll")
	defer span.End()

	var (
		players []player.Player
		games   []game.Game
	)

	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		fetched, err := s.feed.FetchRoster(ctx)
		if err != nil {
			return fmt.Errorf("fetch roster: %w", err)
		}
		players = fetched
		return nil
	})
	p.Go(func(ctx context.Context) error {
		fetched, err := s.feed.FetchSchedule(ctx)
		if err != nil {
			return fmt.Errorf("fetch schedule: %w", err)
		}
		games = fetched
		return nil
	})
	if err := p.Wait(); err != nil {
		return SyncResult{}, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	rosterResult, err := s.applyRoster(ctx, players)
	if err != nil {
		return SyncResult{}, err
	}
	scheduleResult, err := s.applySchedule(ctx, games)
	if err != nil {
		return SyncResult{}, err
	}

	s.invalidator.InvalidateRoster(ctx)
	s.invalidator.InvalidateSchedule(ctx)

	result := SyncResult{
		PlayersUpserted: rosterResult.PlayersUpserted,
		GamesInserted:   scheduleResult.GamesInserted,
		GamesDeleted:    scheduleResult.GamesDeleted,
	}
	s.logger.InfoContext(ctx, "full sync complete",
		"players", result.PlayersUpserted,
		"gamesInserted", result.GamesInserted,
		"gamesDeleted", result.GamesDeleted,
	)
	return result, nil
}

func (s *SyncService) applyRoster(ctx context.Context, players []player.Player) (SyncResult, error) {
	for i := range players {
		players[i].IsActive = true
		if err := players[i].Validate(); err != nil {
			return SyncResult{}, fmt.Errorf("%w: feed player %q: %v", ErrInvalidInput, players[i].Name, err)
		}
	}

	if err := s.playerRepo.DeactivateAll(ctx); err != nil {
		return SyncResult{}, fmt.Errorf("deactivate roster: %w", err)
	}
	if err := s.playerRepo.UpsertMany(ctx, players); err != nil {
		return SyncResult{}, fmt.Errorf("upsert roster: %w", err)
	}

	return SyncResult{PlayersUpserted: len(players)}, nil
}

func (s *SyncService) applySchedule(ctx context.Context, games []game.Game) (SyncResult, error) {
	for i := range games {
		if games[i].Opponent == "" || games[i].StartTime.IsZero() {
			return SyncResult{}, fmt.Errorf("%w: feed game %d is missing opponent or start time", ErrInvalidInput, i)
		}
	}

	deleted, err := s.gameRepo.DeleteUnverifiedBefore(ctx, s.now().UTC())
	if err != nil {
		return SyncResult{}, fmt.Errorf("delete stale games: %w", err)
	}
	if err := s.gameRepo.InsertMany(ctx, games); err != nil {
		return SyncResult{}, fmt.Errorf("insert games: %w", err)
	}

	return SyncResult{GamesInserted: len(games), GamesDeleted: deleted}, nil
}
