package game

import (
	"context"
	"time"
)

// Repository describes game persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Game, error)
	GetByID(ctx context.Context, gameID string) (Game, bool, error)
	// ListUnverifiedBefore returns games still open whose scheduled start
	// precedes the cutoff, oldest first.
	ListUnverifiedBefore(ctx context.Context, cutoff time.Time) ([]Game, error)
	// DeleteUnverifiedBefore drops stale unverified games during a schedule
	// refresh and reports how many were removed. Verified games are never
	// deleted.
	DeleteUnverifiedBefore(ctx context.Context, cutoff time.Time) (int, error)
	// InsertMany adds fixtures keyed by the (start time, opponent) natural
	// key, ignoring duplicates.
	InsertMany(ctx context.Context, games []Game) error
}
