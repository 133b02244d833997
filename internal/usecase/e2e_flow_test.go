package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avsfam/firstgoal/internal/domain/game"
	"github.com/avsfam/firstgoal/internal/domain/player"
	"github.com/avsfam/firstgoal/internal/domain/user"
	"github.com/avsfam/firstgoal/internal/infrastructure/repository/memory"
	idgen "github.com/avsfam/firstgoal/internal/platform/id"
	"github.com/avsfam/firstgoal/internal/platform/logging"
)

// Full journey: two fans sign in, pick scorers for tonight's game, the game
// finishes, an admin confirms the scorer, and the standings update.
func TestFirstGoalFlow(t *testing.T) {
	ctx := context.Background()
	gameNight := time.Date(2026, time.March, 14, 19, 0, 0, 0, time.UTC)
	clock := gameNight.Add(-2 * time.Hour)
	now := func() time.Time { return clock }

	store := memory.NewStore(idgen.NewRandomGenerator())
	roster := []player.Player{
		{ID: "mackinnon", Name: "Nathan MacKinnon", Number: 29, Position: player.PositionCenter, IsActive: true},
		{ID: "makar", Name: "Cale Makar", Number: 8, Position: player.PositionDefense, IsActive: true},
		{ID: "rantanen", Name: "Mikko Rantanen", Number: 96, Position: player.PositionRightWing, IsActive: true},
	}
	if err := store.Players().UpsertMany(ctx, roster); err != nil {
		t.Fatalf("seed roster: %v", err)
	}
	slate := []game.Game{
		{ID: "tonight", Opponent: "Vegas Golden Knights", StartTime: gameNight, IsHome: true, Location: "Ball Arena"},
		{ID: "saturday", Opponent: "Dallas Stars", StartTime: gameNight.Add(48 * time.Hour), IsHome: false},
	}
	if err := store.Games().InsertMany(ctx, slate); err != nil {
		t.Fatalf("seed slate: %v", err)
	}

	profiles := NewProfileService(store.Profiles())
	predictions := NewPredictionService(store.Games(), store.Players(), store.Predictions(), profiles, idgen.NewRandomGenerator())
	predictions.now = now
	schedule := NewScheduleService(store.Games(), game.DefaultInProgressWindow)
	schedule.now = now
	verifier := NewVerificationService(store.Games(), store.Players(), store.Predictions(), testPolicy, nil, logging.NewNop())
	verifier.now = now
	standings := NewLeaderboardService(DirectLeaderboardReader{Repository: store.Leaderboard()})

	// Sarah signs in first, which provisions her profile from the email
	// local part. Mike never opens his profile page; his pick below is his
	// first action and must provision one for him on the way in.
	sarah, err := profiles.Resolve(ctx, user.Principal{UserID: "u-sarah", Email: "sarah@example.com"})
	if err != nil {
		t.Fatalf("resolve sarah: %v", err)
	}

	// Tonight's game is the next predictable one.
	next, err := schedule.Next(ctx)
	if err != nil {
		t.Fatalf("next game: %v", err)
	}
	if next.ID != "tonight" {
		t.Fatalf("unexpected next game: got=%s want=tonight", next.ID)
	}
	if phase := schedule.Phase(next); phase != game.PhaseUpcoming {
		t.Fatalf("unexpected phase before puck drop: %s", phase)
	}

	if _, err := predictions.Submit(ctx, user.Principal{UserID: "u-sarah", Email: "sarah@example.com"}, "mackinnon", next.ID); err != nil {
		t.Fatalf("sarah submit: %v", err)
	}
	if _, err := predictions.Submit(ctx, user.Principal{UserID: "u-mike", Email: "mike@example.com"}, "makar", next.ID); err != nil {
		t.Fatalf("mike submit: %v", err)
	}

	// Puck drops; late picks and early verification are both rejected.
	clock = gameNight.Add(30 * time.Minute)
	if _, err := predictions.Submit(ctx, user.Principal{UserID: "u-sarah", Email: "sarah@example.com"}, "rantanen", "tonight"); !errors.Is(err, ErrGameAlreadyStarted) {
		t.Fatalf("expected late pick rejection, got %v", err)
	}
	if phase := schedule.Phase(next); phase != game.PhaseInProgress {
		t.Fatalf("unexpected phase during the game: %s", phase)
	}

	// Game ends, admin confirms MacKinnon scored first.
	clock = gameNight.Add(4 * time.Hour)
	verified, err := verifier.Verify(ctx, "tonight", "mackinnon")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !verified.Verified || verified.CorrectPlayerID != "mackinnon" {
		t.Fatalf("unexpected verified game: %+v", verified)
	}

	entries, err := standings.Top(ctx, 0)
	if err != nil {
		t.Fatalf("standings: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("unexpected standings size: got=%d want=2", len(entries))
	}
	if entries[0].Username != sarah.Username || entries[0].Points != 10 || entries[0].CorrectPredictions != 1 {
		t.Fatalf("unexpected leader: %+v", entries[0])
	}
	if entries[1].Username != "mike" || entries[1].Points != -5 {
		t.Fatalf("unexpected runner-up: %+v", entries[1])
	}

	// A second verification attempt cannot double-award points.
	if _, err := verifier.Verify(ctx, "tonight", "makar"); !errors.Is(err, ErrAlreadyVerified) {
		t.Fatalf("expected ErrAlreadyVerified, got %v", err)
	}
	again, err := standings.Top(ctx, 0)
	if err != nil {
		t.Fatalf("standings again: %v", err)
	}
	if again[0].Points != 10 {
		t.Fatalf("points must be stable after rejected verify, got %d", again[0].Points)
	}
}
