package player

import "context"

// Repository describes player persistence needs from use cases.
type Repository interface {
	ListActive(ctx context.Context) ([]Player, error)
	GetByID(ctx context.Context, playerID string) (Player, bool, error)
	// DeactivateAll flips every player inactive ahead of a roster refresh.
	DeactivateAll(ctx context.Context) error
	// UpsertMany inserts or reactivates players keyed by the
	// (name, number, position) natural key.
	UpsertMany(ctx context.Context, players []Player) error
}
