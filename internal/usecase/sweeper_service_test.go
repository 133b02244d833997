package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/avsfam/firstgoal/internal/domain/game"
	"github.com/avsfam/firstgoal/internal/platform/logging"
)

type scriptedOracle struct {
	scorers map[string]string
	errs    map[string]error
}

func (o scriptedOracle) FirstScorer(_ context.Context, g game.Game) (string, bool, error) {
	if err, ok := o.errs[g.ID]; ok {
		return "", false, err
	}
	scorer, ok := o.scorers[g.ID]
	return scorer, ok, nil
}

func TestSweeperService_ManualOracleSkipsEverything(t *testing.T) {
	now := time.Date(2026, time.March, 10, 23, 0, 0, 0, time.UTC)
	ctx := context.Background()

	store, verifier := newVerificationFixture(t, now)
	sweeper := NewSweeperService(store.Games(), verifier, ManualConfirmationOracle{}, logging.NewNop())
	sweeper.now = func() time.Time { return now }

	result, err := sweeper.SweepOnce(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if result.Scanned != 1 || result.Skipped != 1 || result.Verified != 0 || result.Failed != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	g, _, err := store.Games().GetByID(ctx, "finished")
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if g.Verified {
		t.Fatalf("manual oracle must never settle a game")
	}
}

func TestSweeperService_OneFailingGameDoesNotBlockOthers(t *testing.T) {
	now := time.Date(2026, time.March, 10, 23, 0, 0, 0, time.UTC)
	ctx := context.Background()

	store, verifier := newVerificationFixture(t, now)
	extra := []game.Game{
		{ID: "broken", Opponent: "Winnipeg Jets", StartTime: now.Add(-30 * time.Hour), IsHome: true},
		{ID: "undecided", Opponent: "St. Louis Blues", StartTime: now.Add(-54 * time.Hour), IsHome: false},
	}
	if err := store.Games().InsertMany(ctx, extra); err != nil {
		t.Fatalf("seed games: %v", err)
	}

	oracle := scriptedOracle{
		scorers: map[string]string{"finished": "mackinnon"},
		errs:    map[string]error{"broken": fmt.Errorf("scoreboard feed down")},
	}
	sweeper := NewSweeperService(store.Games(), verifier, oracle, logging.NewNop())
	sweeper.now = func() time.Time { return now }

	result, err := sweeper.SweepOnce(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if result.Scanned != 3 {
		t.Fatalf("unexpected scanned: got=%d want=3", result.Scanned)
	}
	if result.Verified != 1 || result.Failed != 1 || result.Skipped != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	g, _, err := store.Games().GetByID(ctx, "finished")
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if !g.Verified || g.CorrectPlayerID != "mackinnon" {
		t.Fatalf("decided game must be settled: %+v", g)
	}
}

func TestSweeperService_EmptySweep(t *testing.T) {
	now := time.Date(2026, time.March, 10, 23, 0, 0, 0, time.UTC)
	ctx := context.Background()

	store, verifier := newVerificationFixture(t, now)
	if _, err := verifier.Verify(ctx, "finished", "mackinnon"); err != nil {
		t.Fatalf("verify: %v", err)
	}

	sweeper := NewSweeperService(store.Games(), verifier, ManualConfirmationOracle{}, logging.NewNop())
	sweeper.now = func() time.Time { return now }

	result, err := sweeper.SweepOnce(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if result.Scanned != 0 {
		t.Fatalf("expected nothing to scan, got %+v", result)
	}
}
