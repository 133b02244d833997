package memory

import (
	"context"

	"github.com/avsfam/firstgoal/internal/domain/user"
)

type ProfileRepository struct {
	store *Store
}

var _ user.ProfileRepository = (*ProfileRepository)(nil)

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (user.Profile, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.profiles[userID]
	return p, ok, nil
}

// Provision creates the profile if missing. On a username collision the user
// id's first characters are appended, mirroring how duplicate email local
// parts are disambiguated in the database.
func (r *ProfileRepository) Provision(ctx context.Context, userID, desiredUsername string) (user.Profile, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if existing, ok := r.store.profiles[userID]; ok {
		return existing, nil
	}

	username := desiredUsername
	if r.usernameTaken(username) {
		suffix := userID
		if len(suffix) > 4 {
			suffix = suffix[:4]
		}
		username = desiredUsername + "_" + suffix
	}

	profile := user.Profile{
		UserID:    userID,
		Username:  username,
		UpdatedAt: r.store.now().UTC(),
	}
	r.store.profiles[userID] = profile
	return profile, nil
}

func (r *ProfileRepository) usernameTaken(username string) bool {
	for _, p := range r.store.profiles {
		if p.Username == username {
			return true
		}
	}
	return false
}
