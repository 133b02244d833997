package httpapi

import (
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/avsfam/firstgoal/internal/usecase"
)

type submitPredictionRequest struct {
	GameID   string `json:"game_id" validate:"required"`
	PlayerID string `json:"player_id" validate:"required"`
}

// SubmitPrediction records the caller's first-goal pick for a game.
func (h *Handler) SubmitPrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitPrediction")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	var req submitPredictionRequest
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

	pick, err := h.predictionService.Submit(ctx, principal, req.PlayerID, req.GameID)
	if err != nil {
		h.logger.WarnContext(ctx, "prediction rejected",
			"user_id", principal.UserID,
			"game_id", req.GameID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, predictionToDTO(pick))
}

// ListMyPredictions serves the caller's own picks, newest first.
func (h *Handler) ListMyPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyPredictions")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	picks, err := h.predictionService.ListByUser(ctx, principal.UserID)
	if err != nil {
		h.logger.ErrorContext(ctx, "list predictions failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]predictionDTO, 0, len(picks))
	for _, p := range picks {
		out = append(out, predictionToDTO(p))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}
