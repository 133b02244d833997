package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avsfam/firstgoal/internal/domain/game"
	"github.com/avsfam/firstgoal/internal/domain/player"
	"github.com/avsfam/firstgoal/internal/domain/prediction"
	"github.com/avsfam/firstgoal/internal/infrastructure/repository/memory"
	idgen "github.com/avsfam/firstgoal/internal/platform/id"
	"github.com/avsfam/firstgoal/internal/platform/logging"
)

var testPolicy = prediction.PointsPolicy{Correct: 10, Incorrect: -5}

func newVerificationFixture(t *testing.T, now time.Time) (*memory.Store, *VerificationService) {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore(idgen.NewRandomGenerator())
	players := []player.Player{
		{ID: "mackinnon", Name: "Nathan MacKinnon", Number: 29, Position: player.PositionCenter, IsActive: true},
		{ID: "makar", Name: "Cale Makar", Number: 8, Position: player.PositionDefense, IsActive: true},
		{ID: "rantanen", Name: "Mikko Rantanen", Number: 96, Position: player.PositionRightWing, IsActive: true},
	}
	if err := store.Players().UpsertMany(ctx, players); err != nil {
		t.Fatalf("seed players: %v", err)
	}
	games := []game.Game{
		{ID: "finished", Opponent: "Vegas Golden Knights", StartTime: now.Add(-4 * time.Hour), IsHome: true},
		{ID: "future", Opponent: "Dallas Stars", StartTime: now.Add(24 * time.Hour), IsHome: false},
	}
	if err := store.Games().InsertMany(ctx, games); err != nil {
		t.Fatalf("seed games: %v", err)
	}

	service := NewVerificationService(store.Games(), store.Players(), store.Predictions(), testPolicy, nil, logging.NewNop())
	service.now = func() time.Time { return now }
	return store, service
}

func seedPick(t *testing.T, store *memory.Store, userID, playerID, gameID string) {
	t.Helper()
	_, err := store.Predictions().Create(context.Background(), prediction.Prediction{
		UserID:    userID,
		PlayerID:  playerID,
		GameID:    gameID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed prediction: %v", err)
	}
}

func seedProfile(t *testing.T, store *memory.Store, userID, username string) {
	t.Helper()
	if _, err := store.Profiles().Provision(context.Background(), userID, username); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
}

// staleGameRepo hides the verified flag, standing in for a pre-check read
// that raced ahead of another admin's settlement.
type staleGameRepo struct {
	game.Repository
}

func (r staleGameRepo) GetByID(ctx context.Context, id string) (game.Game, bool, error) {
	g, ok, err := r.Repository.GetByID(ctx, id)
	g.Verified = false
	return g, ok, err
}

func TestVerificationService_Verify(t *testing.T) {
	now := time.Date(2026, time.March, 10, 23, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("settles all picks and applies points", func(t *testing.T) {
		store, service := newVerificationFixture(t, now)
		seedProfile(t, store, "sarah", "sarah")
		seedProfile(t, store, "mike", "mike")
		seedPick(t, store, "sarah", "mackinnon", "finished")
		seedPick(t, store, "mike", "makar", "finished")

		got, err := service.Verify(ctx, "finished", "mackinnon")
		if err != nil {
			t.Fatalf("verify: %v", err)
		}
		if !got.Verified {
			t.Fatalf("game must be verified")
		}
		if got.CorrectPlayerID != "mackinnon" {
			t.Fatalf("unexpected scorer: got=%s want=mackinnon", got.CorrectPlayerID)
		}

		entries, err := store.Leaderboard().Top(ctx, 10)
		if err != nil {
			t.Fatalf("leaderboard: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("unexpected entry count: got=%d want=2", len(entries))
		}
		if entries[0].UserID != "sarah" || entries[0].Points != 10 {
			t.Fatalf("unexpected winner row: %+v", entries[0])
		}
		if entries[1].UserID != "mike" || entries[1].Points != -5 {
			t.Fatalf("unexpected loser row: %+v", entries[1])
		}

		picks, err := store.Predictions().ListByGame(ctx, "finished")
		if err != nil {
			t.Fatalf("list picks: %v", err)
		}
		for _, p := range picks {
			if !p.AdminVerified {
				t.Fatalf("pick %s must be flagged verified", p.ID)
			}
			if p.IsCorrect != (p.PlayerID == "mackinnon") {
				t.Fatalf("pick %s has wrong correctness", p.ID)
			}
		}
	})

	t.Run("second verify is rejected and points stay put", func(t *testing.T) {
		store, service := newVerificationFixture(t, now)
		seedProfile(t, store, "sarah", "sarah")
		seedPick(t, store, "sarah", "mackinnon", "finished")

		if _, err := service.Verify(ctx, "finished", "mackinnon"); err != nil {
			t.Fatalf("first verify: %v", err)
		}
		_, err := service.Verify(ctx, "finished", "makar")
		if !errors.Is(err, ErrAlreadyVerified) {
			t.Fatalf("expected ErrAlreadyVerified, got %v", err)
		}

		entries, err := store.Leaderboard().Top(ctx, 10)
		if err != nil {
			t.Fatalf("leaderboard: %v", err)
		}
		if entries[0].Points != 10 {
			t.Fatalf("points must not change on rejected verify: got=%d want=10", entries[0].Points)
		}
	})

	t.Run("losing a verification race is still a conflict", func(t *testing.T) {
		store, service := newVerificationFixture(t, now)
		seedProfile(t, store, "sarah", "sarah")
		seedPick(t, store, "sarah", "mackinnon", "finished")

		if _, err := service.Verify(ctx, "finished", "mackinnon"); err != nil {
			t.Fatalf("first verify: %v", err)
		}

		// The racer's pre-check saw the game before it was settled, so only
		// the store's guard inside the scoring step can stop it.
		racer := NewVerificationService(staleGameRepo{Repository: store.Games()}, store.Players(), store.Predictions(), testPolicy, nil, logging.NewNop())
		racer.now = service.now
		_, err := racer.Verify(ctx, "finished", "makar")
		if !errors.Is(err, ErrAlreadyVerified) {
			t.Fatalf("expected ErrAlreadyVerified from the store guard, got %v", err)
		}

		entries, err := store.Leaderboard().Top(ctx, 10)
		if err != nil {
			t.Fatalf("leaderboard: %v", err)
		}
		if entries[0].Points != 10 {
			t.Fatalf("points must not change for the losing verify: got=%d want=10", entries[0].Points)
		}
	})

	t.Run("rejects game that has not started", func(t *testing.T) {
		_, service := newVerificationFixture(t, now)

		_, err := service.Verify(ctx, "future", "mackinnon")
		if !errors.Is(err, ErrGameNotStarted) {
			t.Fatalf("expected ErrGameNotStarted, got %v", err)
		}
	})

	t.Run("rejects unknown game and unknown scorer", func(t *testing.T) {
		_, service := newVerificationFixture(t, now)

		if _, err := service.Verify(ctx, "no-such-game", "mackinnon"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound for game, got %v", err)
		}
		if _, err := service.Verify(ctx, "finished", "no-such-player"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound for player, got %v", err)
		}
	})

	t.Run("verifying with zero picks still closes the game", func(t *testing.T) {
		_, service := newVerificationFixture(t, now)

		got, err := service.Verify(ctx, "finished", "rantanen")
		if err != nil {
			t.Fatalf("verify: %v", err)
		}
		if !got.Verified || got.CorrectPlayerID != "rantanen" {
			t.Fatalf("unexpected game state: %+v", got)
		}
	})
}

func TestVerificationService_ListUnverified(t *testing.T) {
	now := time.Date(2026, time.March, 10, 23, 0, 0, 0, time.UTC)
	ctx := context.Background()
	store, service := newVerificationFixture(t, now)

	older := []game.Game{{ID: "older", Opponent: "Winnipeg Jets", StartTime: now.Add(-48 * time.Hour), IsHome: true}}
	if err := store.Games().InsertMany(ctx, older); err != nil {
		t.Fatalf("seed older game: %v", err)
	}

	got, err := service.ListUnverified(ctx)
	if err != nil {
		t.Fatalf("list unverified: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("unexpected count: got=%d want=2", len(got))
	}
	if got[0].ID != "older" || got[1].ID != "finished" {
		t.Fatalf("expected oldest first, got %s then %s", got[0].ID, got[1].ID)
	}
}
