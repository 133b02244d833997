package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/avsfam/firstgoal/internal/domain/game"
	"github.com/avsfam/firstgoal/internal/domain/leaderboard"
	"github.com/avsfam/firstgoal/internal/domain/player"
	"github.com/avsfam/firstgoal/internal/domain/prediction"
	"github.com/avsfam/firstgoal/internal/platform/logging"
	"github.com/avsfam/firstgoal/internal/usecase"
)

type Handler struct {
	rosterService       *usecase.RosterService
	scheduleService     *usecase.ScheduleService
	predictionService   *usecase.PredictionService
	verificationService *usecase.VerificationService
	leaderboardService  *usecase.LeaderboardService
	profileService      *usecase.ProfileService
	syncService         *usecase.SyncService
	sweeperService      *usecase.SweeperService
	logger              *logging.Logger
	validator           *validator.Validate
}

func NewHandler(
	rosterService *usecase.RosterService,
	scheduleService *usecase.ScheduleService,
	predictionService *usecase.PredictionService,
	verificationService *usecase.VerificationService,
	leaderboardService *usecase.LeaderboardService,
	profileService *usecase.ProfileService,
	syncService *usecase.SyncService,
	sweeperService *usecase.SweeperService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		rosterService:       rosterService,
		scheduleService:     scheduleService,
		predictionService:   predictionService,
		verificationService: verificationService,
		leaderboardService:  leaderboardService,
		profileService:      profileService,
		syncService:         syncService,
		sweeperService:      sweeperService,
		logger:              logger,
		validator:           validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type playerDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Number   int    `json:"number"`
	Position string `json:"position"`
}

func playerToDTO(p player.Player) playerDTO {
	return playerDTO{
		ID:       p.ID,
		Name:     p.Name,
		Number:   p.Number,
		Position: string(p.Position),
	}
}

type gameDTO struct {
	ID              string    `json:"id"`
	Opponent        string    `json:"opponent"`
	StartTime       time.Time `json:"start_time"`
	IsHome          bool      `json:"is_home"`
	Location        string    `json:"location,omitempty"`
	Phase           string    `json:"phase"`
	Verified        bool      `json:"verified"`
	CorrectPlayerID string    `json:"correct_player_id,omitempty"`
}

func (h *Handler) gameToDTO(g game.Game) gameDTO {
	return gameDTO{
		ID:              g.ID,
		Opponent:        g.Opponent,
		StartTime:       g.StartTime.UTC(),
		IsHome:          g.IsHome,
		Location:        g.Location,
		Phase:           string(h.scheduleService.Phase(g)),
		Verified:        g.Verified,
		CorrectPlayerID: g.CorrectPlayerID,
	}
}

type predictionDTO struct {
	ID            string    `json:"id"`
	PlayerID      string    `json:"player_id"`
	GameID        string    `json:"game_id"`
	CreatedAt     time.Time `json:"created_at"`
	AdminVerified bool      `json:"admin_verified"`
	IsCorrect     *bool     `json:"is_correct,omitempty"`
}

// IsCorrect is only exposed once the game is verified; until then the pick
// has no outcome.
func predictionToDTO(p prediction.Prediction) predictionDTO {
	dto := predictionDTO{
		ID:            p.ID,
		PlayerID:      p.PlayerID,
		GameID:        p.GameID,
		CreatedAt:     p.CreatedAt.UTC(),
		AdminVerified: p.AdminVerified,
	}
	if p.AdminVerified {
		correct := p.IsCorrect
		dto.IsCorrect = &correct
	}
	return dto
}

type leaderboardEntryDTO struct {
	Rank               int    `json:"rank"`
	UserID             string `json:"user_id"`
	Username           string `json:"username"`
	Points             int    `json:"points"`
	CorrectPredictions int    `json:"correct_predictions"`
	TotalPredictions   int    `json:"total_predictions"`
}

func leaderboardToDTO(entries []leaderboard.Entry) []leaderboardEntryDTO {
	out := make([]leaderboardEntryDTO, 0, len(entries))
	for i, e := range entries {
		out = append(out, leaderboardEntryDTO{
			Rank:               i + 1,
			UserID:             e.UserID,
			Username:           e.Username,
			Points:             e.Points,
			CorrectPredictions: e.CorrectPredictions,
			TotalPredictions:   e.TotalPredictions,
		})
	}
	return out
}

type syncResultDTO struct {
	PlayersUpserted int `json:"players_upserted"`
	GamesInserted   int `json:"games_inserted"`
	GamesDeleted    int `json:"games_deleted"`
}

type sweepResultDTO struct {
	Scanned  int `json:"scanned"`
	Verified int `json:"verified"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}
