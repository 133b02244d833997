package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/avsfam/firstgoal/internal/usecase"
)

// Leaderboard serves the top standings. An optional ?limit= query parameter
// narrows or widens the page within the service's clamp.
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Leaderboard")
	defer span.End()

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: limit must be an integer", usecase.ErrInvalidInput))
			return
		}
		limit = parsed
	}

	entries, err := h.leaderboardService.Top(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "leaderboard read failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaderboardToDTO(entries))
}
