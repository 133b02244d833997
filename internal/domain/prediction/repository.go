package prediction

import "context"

// PointsPolicy carries the award constants applied when a game is verified.
type PointsPolicy struct {
	Correct   int
	Incorrect int
}

// Repository describes prediction persistence plus the scoring transition.
type Repository interface {
	// Create inserts a prediction; returns ErrDuplicate when the
	// (user, game) uniqueness constraint would be violated.
	Create(ctx context.Context, p Prediction) (Prediction, error)
	ListByUser(ctx context.Context, userID string) ([]Prediction, error)
	ListByGame(ctx context.Context, gameID string) ([]Prediction, error)
	// VerifyGame performs the scoring transition as one atomic unit: marks
	// the game verified with the scoring player, flags each prediction's
	// correctness, and applies the points policy to every predicting user's
	// total. All-or-nothing; a failed call leaves no partial state. Returns
	// ErrGameVerified when the game was already settled.
	VerifyGame(ctx context.Context, gameID, scoringPlayerID string, policy PointsPolicy) error
}
