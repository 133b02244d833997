package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/avsfam/firstgoal/internal/domain/game"
	"github.com/avsfam/firstgoal/internal/domain/player"
	"github.com/avsfam/firstgoal/internal/domain/prediction"
	"github.com/avsfam/firstgoal/internal/domain/user"
	"github.com/avsfam/firstgoal/internal/infrastructure/repository/memory"
	idgen "github.com/avsfam/firstgoal/internal/platform/id"
	"github.com/avsfam/firstgoal/internal/usecase"
)

// newTestRouter wires the full HTTP surface over an in-memory store with one
// upcoming game, one finished game, and a small roster.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	ctx := context.Background()
	store := memory.NewStore(idgen.NewRandomGenerator())

	players := []player.Player{
		{ID: "mackinnon", Name: "Nathan MacKinnon", Number: 29, Position: player.PositionCenter, IsActive: true},
		{ID: "makar", Name: "Cale Makar", Number: 8, Position: player.PositionDefense, IsActive: true},
	}
	if err := store.Players().UpsertMany(ctx, players); err != nil {
		t.Fatalf("seed players: %v", err)
	}

	now := time.Now().UTC()
	games := []game.Game{
		{ID: "vs-vegas", Opponent: "Vegas Golden Knights", StartTime: now.Add(24 * time.Hour), IsHome: true},
		{ID: "vs-dallas", Opponent: "Dallas Stars", StartTime: now.Add(-5 * time.Hour), IsHome: false},
	}
	if err := store.Games().InsertMany(ctx, games); err != nil {
		t.Fatalf("seed games: %v", err)
	}

	policy := prediction.PointsPolicy{Correct: 10, Incorrect: -5}
	rosterService := usecase.NewRosterService(store.Players())
	scheduleService := usecase.NewScheduleService(store.Games(), game.DefaultInProgressWindow)
	profileService := usecase.NewProfileService(store.Profiles())
	predictionService := usecase.NewPredictionService(store.Games(), store.Players(), store.Predictions(), profileService, idgen.NewRandomGenerator())
	verificationService := usecase.NewVerificationService(store.Games(), store.Players(), store.Predictions(), policy, nil, nil)
	leaderboardService := usecase.NewLeaderboardService(usecase.DirectLeaderboardReader{Repository: store.Leaderboard()})
	sweeperService := usecase.NewSweeperService(store.Games(), verificationService, nil, nil)

	handler := NewHandler(
		rosterService,
		scheduleService,
		predictionService,
		verificationService,
		leaderboardService,
		profileService,
		nil, // sync endpoints are not exercised here
		sweeperService,
		nil,
	)

	verifier := staticVerifier{principals: map[string]user.Principal{
		"fan-token":   {UserID: "user-sarah", Email: "sarah@example.com"},
		"admin-token": {UserID: "user-coach", Email: "coach@example.com"},
	}}

	return NewRouter(handler, verifier, nil, []string{"coach@example.com"}, []string{"*"})
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	return body
}

func TestRouter_PublicReads(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/healthz", "/v1/players", "/v1/games", "/v1/games/next", "/v1/leaderboard"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d: %s", path, rec.Code, rec.Body.String())
		}
	}
}

func TestRouter_NextGameCarriesPhase(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/games/next", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	body := decodeEnvelope(t, rec)
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", body["data"])
	}
	if got, _ := data["id"].(string); got != "vs-vegas" {
		t.Fatalf("next game: got=%q want=%q", got, "vs-vegas")
	}
	if got, _ := data["phase"].(string); got != string(game.PhaseUpcoming) {
		t.Fatalf("next game phase: got=%q want=%q", got, game.PhaseUpcoming)
	}
}

func TestRouter_PredictionRequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/predictions",
		strings.NewReader(`{"game_id":"vs-vegas","player_id":"mackinnon"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRouter_PredictVerifyAndStand(t *testing.T) {
	router := newTestRouter(t)

	// Sign in and place a pick on the upcoming game.
	req := httptest.NewRequest(http.MethodPost, "/v1/predictions",
		strings.NewReader(`{"game_id":"vs-vegas","player_id":"mackinnon"}`))
	req.Header.Set("Authorization", "Bearer fan-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// A second pick on the same game is a conflict.
	req = httptest.NewRequest(http.MethodPost, "/v1/predictions",
		strings.NewReader(`{"game_id":"vs-vegas","player_id":"makar"}`))
	req.Header.Set("Authorization", "Bearer fan-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate submit: expected status 409, got %d", rec.Code)
	}

	// Picking on the already-started game is rejected too.
	req = httptest.NewRequest(http.MethodPost, "/v1/predictions",
		strings.NewReader(`{"game_id":"vs-dallas","player_id":"mackinnon"}`))
	req.Header.Set("Authorization", "Bearer fan-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("late submit: expected status 409, got %d", rec.Code)
	}

	// Admin settles the finished game.
	req = httptest.NewRequest(http.MethodPost, "/v1/admin/games/vs-dallas/verify",
		strings.NewReader(`{"player_id":"makar"}`))
	req.Header.Set("Authorization", "Bearer admin-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("verify: expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	data, _ := body["data"].(map[string]any)
	if got, _ := data["verified"].(bool); !got {
		t.Fatalf("expected verified game in response")
	}

	// A fan cannot reach the admin surface.
	req = httptest.NewRequest(http.MethodPost, "/v1/admin/games/vs-vegas/verify",
		strings.NewReader(`{"player_id":"makar"}`))
	req.Header.Set("Authorization", "Bearer fan-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("fan verify: expected status 401, got %d", rec.Code)
	}
}

func TestRouter_FirstActionPickJoinsStandings(t *testing.T) {
	router := newTestRouter(t)

	// Sarah's very first request is a pick; she has never hit /v1/me.
	req := httptest.NewRequest(http.MethodPost, "/v1/predictions",
		strings.NewReader(`{"game_id":"vs-vegas","player_id":"mackinnon"}`))
	req.Header.Set("Authorization", "Bearer fan-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// The pick provisioned her profile, so the standings list her already.
	req = httptest.NewRequest(http.MethodGet, "/v1/leaderboard", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("leaderboard: expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	entries, ok := body["data"].([]any)
	if !ok {
		t.Fatalf("expected data array, got %v", body["data"])
	}
	found := false
	for _, raw := range entries {
		entry, _ := raw.(map[string]any)
		if username, _ := entry["username"].(string); username == "sarah" {
			found = true
			if total, _ := entry["total_predictions"].(float64); total != 1 {
				t.Fatalf("total_predictions: got=%v want=1", entry["total_predictions"])
			}
		}
	}
	if !found {
		t.Fatalf("expected sarah in the standings after her first pick")
	}
}

func TestRouter_MeProvisionsProfile(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer fan-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	data, _ := body["data"].(map[string]any)
	if got, _ := data["username"].(string); got != "sarah" {
		t.Fatalf("username: got=%q want=%q", got, "sarah")
	}
}

func TestRouter_RejectsUnknownBodyFields(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/predictions",
		strings.NewReader(`{"game_id":"vs-vegas","player_id":"mackinnon","bogus":true}`))
	req.Header.Set("Authorization", "Bearer fan-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}
