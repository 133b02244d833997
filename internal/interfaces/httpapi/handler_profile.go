package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/avsfam/firstgoal/internal/usecase"
)

type profileDTO struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Me resolves the caller's profile, provisioning one on first sign-in.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Me")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	profile, err := h.profileService.Resolve(ctx, principal)
	if err != nil {
		h.logger.ErrorContext(ctx, "profile resolve failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, profileDTO{
		UserID:    profile.UserID,
		Username:  profile.Username,
		UpdatedAt: profile.UpdatedAt.UTC(),
	})
}
