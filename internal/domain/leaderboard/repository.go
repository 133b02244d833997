package leaderboard

import "context"

// Repository exposes the read side of the projection.
type Repository interface {
	// Top returns at most limit entries in ranking order.
	Top(ctx context.Context, limit int) ([]Entry, error)
}
