package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/avsfam/firstgoal/internal/domain/game"
	"github.com/avsfam/firstgoal/internal/platform/logging"
)

// Oracle decides which player scored first in a finished game. Returning
// ok=false means the oracle has no answer yet and the game stays open for a
// later sweep or a manual admin verification.
type Oracle interface {
	FirstScorer(ctx context.Context, g game.Game) (playerID string, ok bool, err error)
}

// ManualConfirmationOracle never settles a game on its own. With it wired,
// the sweeper only surfaces how many games are waiting and every settlement
// happens through an explicit admin verification.
type ManualConfirmationOracle struct{}

func (ManualConfirmationOracle) FirstScorer(context.Context, game.Game) (string, bool, error) {
	return "", false, nil
}

// SweepResult summarizes one sweep pass over past unverified games.
type SweepResult struct {
	Scanned  int
	Verified int
	Skipped  int
	Failed   int
}

const defaultSweepWorkers = 4

// SweeperService settles finished games in bulk. Each game is handled in
// isolation: one failing game never blocks the rest of the pass.
type SweeperService struct {
	gameRepo game.Repository
	verifier *VerificationService
	oracle   Oracle
	logger   *logging.Logger
	workers  int
	now      func() time.Time
}

func NewSweeperService(
	gameRepo game.Repository,
	verifier *VerificationService,
	oracle Oracle,
	logger *logging.Logger,
) *SweeperService {
	if oracle == nil {
		oracle = ManualConfirmationOracle{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SweeperService{
		gameRepo: gameRepo,
		verifier: verifier,
		oracle:   oracle,
		logger:   logger,
		workers:  defaultSweepWorkers,
		now:      time.Now,
	}
}

// SweepOnce scans all past unverified games and settles those the oracle can
// decide. Games the oracle declines are counted as skipped.
func (s *SweeperService) SweepOnce(ctx context.Context) (SweepResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SweeperService.SweepOnce")
	defer span.End()

	games, err := s.gameRepo.ListUnverifiedBefore(ctx, s.now().UTC())
	if err != nil {
		return SweepResult{}, fmt.Errorf("list games for sweep: %w", err)
	}

	result := SweepResult{Scanned: len(games)}
	if len(games) == 0 {
		return result, nil
	}

	workers := s.workers
	if workers > len(games) {
		workers = len(games)
	}
	workerPool, err := ants.NewPool(workers)
	if err != nil {
		return SweepResult{}, fmt.Errorf("create sweep pool: %w", err)
	}
	defer workerPool.Release()

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, g := range games {
		g := g
		wg.Add(1)
		submitErr := workerPool.Submit(func() {
			defer wg.Done()
			outcome := s.sweepGame(ctx, g)
			mu.Lock()
			switch outcome {
			case sweepVerified:
				result.Verified++
			case sweepSkipped:
				result.Skipped++
			case sweepFailed:
				result.Failed++
			}
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			result.Failed++
			mu.Unlock()
			s.logger.ErrorContext(ctx, "sweep submit failed", "game_id", g.ID, "error", submitErr)
		}
	}
	wg.Wait()

	s.logger.InfoContext(ctx, "sweep complete",
		"scanned", result.Scanned,
		"verified", result.Verified,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return result, nil
}

type sweepOutcome int

const (
	sweepVerified sweepOutcome = iota
	sweepSkipped
	sweepFailed
)

func (s *SweeperService) sweepGame(ctx context.Context, g game.Game) sweepOutcome {
	playerID, ok, err := s.oracle.FirstScorer(ctx, g)
	if err != nil {
		s.logger.ErrorContext(ctx, "oracle lookup failed", "gameID", g.ID, "error", err)
		return sweepFailed
	}
	if !ok {
		return sweepSkipped
	}

	if _, err := s.verifier.Verify(ctx, g.ID, playerID); err != nil {
		s.logger.ErrorContext(ctx, "sweep verification failed",
			"gameID", g.ID,
			"playerID", playerID,
			"error", err,
		)
		return sweepFailed
	}
	return sweepVerified
}
