package prediction

import (
	"errors"
	"time"
)

// ErrDuplicate reports a second prediction for the same (user, game) pair.
// The uniqueness invariant is enforced by the backing store, not by callers,
// so concurrent submissions cannot race past it.
var ErrDuplicate = errors.New("prediction already exists for this user and game")

// ErrGameVerified reports a settlement attempt against a game whose points
// were already applied. The store raises it from inside the atomic scoring
// step, so two racing verifications can never both award points.
var ErrGameVerified = errors.New("game already verified")

// Prediction is one user's first-goal pick for one game. IsCorrect is
// meaningful only once AdminVerified is true.
type Prediction struct {
	ID            string
	UserID        string
	PlayerID      string
	GameID        string
	CreatedAt     time.Time
	IsCorrect     bool
	AdminVerified bool
}
