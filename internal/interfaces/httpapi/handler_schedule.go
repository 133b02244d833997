package httpapi

import "net/http"

// ListGames serves the full schedule with each game's clock phase.
func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGames")
	defer span.End()

	games, err := h.scheduleService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list games failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]gameDTO, 0, len(games))
	for _, g := range games {
		out = append(out, h.gameToDTO(g))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

// NextGame serves the nearest game still open for predictions.
func (h *Handler) NextGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.NextGame")
	defer span.End()

	next, err := h.scheduleService.Next(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, h.gameToDTO(next))
}
