package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/avsfam/firstgoal/internal/domain/user"
)

// ProfileService resolves the public profile for an authenticated principal,
// provisioning one on first contact. The default username is the local part
// of the account email, so sarah@example.com shows up as "sarah".
type ProfileService struct {
	profileRepo user.ProfileRepository
}

func NewProfileService(profileRepo user.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

func (s *ProfileService) Resolve(ctx context.Context, principal user.Principal) (user.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.Resolve")
	defer span.End()

	if strings.TrimSpace(principal.UserID) == "" {
		return user.Profile{}, fmt.Errorf("%w: principal has no user id", ErrInvalidInput)
	}

	profile, exists, err := s.profileRepo.GetByUserID(ctx, principal.UserID)
	if err != nil {
		return user.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	if exists {
		return profile, nil
	}

	profile, err = s.profileRepo.Provision(ctx, principal.UserID, UsernameFromEmail(principal.Email))
	if err != nil {
		return user.Profile{}, fmt.Errorf("provision profile: %w", err)
	}
	return profile, nil
}

// UsernameFromEmail derives a display name from an account email. An email
// without a local part falls back to "fan".
func UsernameFromEmail(email string) string {
	email = strings.TrimSpace(email)
	local, _, _ := strings.Cut(email, "@")
	local = strings.TrimSpace(local)
	if local == "" {
		return "fan"
	}
	return local
}
