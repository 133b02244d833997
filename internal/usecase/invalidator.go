package usecase

import "context"

// CacheInvalidator is implemented by the caching repository layer. Write
// paths call it synchronously before reporting success so no read observes
// state the write just made stale.
type CacheInvalidator interface {
	InvalidateRoster(ctx context.Context)
	InvalidateSchedule(ctx context.Context)
	InvalidateLeaderboard(ctx context.Context)
}

type noopCacheInvalidator struct{}

func (noopCacheInvalidator) InvalidateRoster(context.Context)      {}
func (noopCacheInvalidator) InvalidateSchedule(context.Context)    {}
func (noopCacheInvalidator) InvalidateLeaderboard(context.Context) {}

// NewNoopCacheInvalidator is used when caching is disabled.
func NewNoopCacheInvalidator() CacheInvalidator {
	return noopCacheInvalidator{}
}
