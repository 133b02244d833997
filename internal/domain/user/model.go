package user

import "time"

// Principal identifies an authenticated caller as reported by the identity
// provider.
type Principal struct {
	UserID string
	Email  string
}

// Profile is the public-facing identity shown on the leaderboard.
type Profile struct {
	UserID    string
	Username  string
	UpdatedAt time.Time
}
