package user

import "context"

// ProfileRepository resolves and provisions user profiles.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (Profile, bool, error)
	// Provision creates a profile with the desired username, letting the
	// backing store uniquify it; returns the profile actually stored.
	Provision(ctx context.Context, userID, desiredUsername string) (Profile, error)
}
