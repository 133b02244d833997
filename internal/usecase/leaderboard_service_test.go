package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/avsfam/firstgoal/internal/domain/game"
	"github.com/avsfam/firstgoal/internal/domain/player"
	cacherepo "github.com/avsfam/firstgoal/internal/infrastructure/repository/cache"
	"github.com/avsfam/firstgoal/internal/infrastructure/repository/memory"
	idgen "github.com/avsfam/firstgoal/internal/platform/id"
	"github.com/avsfam/firstgoal/internal/platform/logging"
)

func TestLeaderboardService_TopClampsLimit(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(idgen.NewRandomGenerator())
	for i := 0; i < 12; i++ {
		seedProfile(t, store, fmt.Sprintf("user-%02d", i), fmt.Sprintf("fan%02d", i))
	}

	service := NewLeaderboardService(DirectLeaderboardReader{Repository: store.Leaderboard()})

	got, err := service.Top(ctx, 0)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(got) != DefaultLeaderboardLimit {
		t.Fatalf("unexpected default page size: got=%d want=%d", len(got), DefaultLeaderboardLimit)
	}

	got, err = service.Top(ctx, 3)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("unexpected page size: got=%d want=3", len(got))
	}
}

func TestLeaderboardService_Ordering(t *testing.T) {
	now := time.Date(2026, time.March, 10, 23, 0, 0, 0, time.UTC)
	ctx := context.Background()

	store, verifier := newVerificationFixture(t, now)
	seedProfile(t, store, "alice", "alice")
	seedProfile(t, store, "bob", "bob")
	seedProfile(t, store, "carol", "carol")
	seedPick(t, store, "alice", "mackinnon", "finished")
	seedPick(t, store, "bob", "makar", "finished")
	seedPick(t, store, "carol", "mackinnon", "finished")

	if _, err := verifier.Verify(ctx, "finished", "mackinnon"); err != nil {
		t.Fatalf("verify: %v", err)
	}

	service := NewLeaderboardService(DirectLeaderboardReader{Repository: store.Leaderboard()})
	got, err := service.Top(ctx, 10)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("unexpected entry count: got=%d want=3", len(got))
	}
	// alice and carol tie on points and correct picks; user id breaks the tie.
	if got[0].UserID != "alice" || got[1].UserID != "carol" || got[2].UserID != "bob" {
		t.Fatalf("unexpected order: %s, %s, %s", got[0].UserID, got[1].UserID, got[2].UserID)
	}
	if got[0].Points != 10 || got[2].Points != -5 {
		t.Fatalf("unexpected points: top=%d bottom=%d", got[0].Points, got[2].Points)
	}
}

func TestLeaderboardService_RefreshBypassesCache(t *testing.T) {
	now := time.Date(2026, time.March, 10, 23, 0, 0, 0, time.UTC)
	ctx := context.Background()

	store := memory.NewStore(idgen.NewRandomGenerator())
	players := []player.Player{
		{ID: "mackinnon", Name: "Nathan MacKinnon", Number: 29, Position: player.PositionCenter, IsActive: true},
	}
	if err := store.Players().UpsertMany(ctx, players); err != nil {
		t.Fatalf("seed players: %v", err)
	}
	games := []game.Game{{ID: "finished", Opponent: "Vegas Golden Knights", StartTime: now.Add(-4 * time.Hour), IsHome: true}}
	if err := store.Games().InsertMany(ctx, games); err != nil {
		t.Fatalf("seed games: %v", err)
	}
	seedProfile(t, store, "sarah", "sarah")
	seedPick(t, store, "sarah", "mackinnon", "finished")

	layer := cacherepo.NewLayer(store.Players(), store.Games(), store.Leaderboard(), time.Hour, time.Hour)
	service := NewLeaderboardService(layer.Leaderboard)

	before, err := service.Top(ctx, 10)
	if err != nil {
		t.Fatalf("top before verify: %v", err)
	}
	if before[0].Points != 0 {
		t.Fatalf("expected zero points before verify, got %d", before[0].Points)
	}

	verifier := NewVerificationService(store.Games(), store.Players(), store.Predictions(), testPolicy, nil, logging.NewNop())
	verifier.now = func() time.Time { return now }
	if _, err := verifier.Verify(ctx, "finished", "mackinnon"); err != nil {
		t.Fatalf("verify: %v", err)
	}

	stale, err := service.Top(ctx, 10)
	if err != nil {
		t.Fatalf("cached top: %v", err)
	}
	if stale[0].Points != 0 {
		t.Fatalf("expected cached page to be stale, got points=%d", stale[0].Points)
	}

	fresh, err := service.Refresh(ctx, 10)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if fresh[0].Points != 10 {
		t.Fatalf("expected refreshed points=10, got %d", fresh[0].Points)
	}

	primed, err := service.Top(ctx, 10)
	if err != nil {
		t.Fatalf("top after refresh: %v", err)
	}
	if primed[0].Points != 10 {
		t.Fatalf("refresh must prime the cache, got points=%d", primed[0].Points)
	}
}
