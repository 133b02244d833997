package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/avsfam/firstgoal/internal/usecase"
)

type verifyGameRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
}

// VerifyGame settles a finished game with the player who scored first and
// applies the points policy to every pick in one shot.
func (h *Handler) VerifyGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.VerifyGame")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	if gameID == "" {
		writeError(ctx, w, fmt.Errorf("%w: game id is required", usecase.ErrInvalidInput))
		return
	}

	var req verifyGameRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid request body: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	verified, err := h.verificationService.Verify(ctx, gameID, req.PlayerID)
	if err != nil {
		h.logger.WarnContext(ctx, "game verification rejected",
			"game_id", gameID,
			"player_id", req.PlayerID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, h.gameToDTO(verified))
}

// ListUnverifiedGames serves completed games still awaiting a scorer,
// oldest first.
func (h *Handler) ListUnverifiedGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUnverifiedGames")
	defer span.End()

	games, err := h.verificationService.ListUnverified(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list unverified games failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]gameDTO, 0, len(games))
	for _, g := range games {
		out = append(out, h.gameToDTO(g))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

// SyncRoster pulls the current roster from the upstream feed.
func (h *Handler) SyncRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncRoster")
	defer span.End()

	result, err := h.syncService.SyncRoster(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "roster sync failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncResultDTO{
		PlayersUpserted: result.PlayersUpserted,
		GamesInserted:   result.GamesInserted,
		GamesDeleted:    result.GamesDeleted,
	})
}

// SyncSchedule pulls the season schedule from the upstream feed.
func (h *Handler) SyncSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncSchedule")
	defer span.End()

	result, err := h.syncService.SyncSchedule(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "schedule sync failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncResultDTO{
		PlayersUpserted: result.PlayersUpserted,
		GamesInserted:   result.GamesInserted,
		GamesDeleted:    result.GamesDeleted,
	})
}

// Sweep runs one settlement pass over past unverified games.
func (h *Handler) Sweep(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Sweep")
	defer span.End()

	result, err := h.sweeperService.SweepOnce(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "sweep failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sweepResultDTO{
		Scanned:  result.Scanned,
		Verified: result.Verified,
		Skipped:  result.Skipped,
		Failed:   result.Failed,
	})
}
