// Package cache decorates the repositories with process-local TTL caching.
// Roster and schedule reads share one store with a minutes-scale TTL; the
// leaderboard gets its own store with a much shorter TTL because standings
// change on every verification.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/avsfam/firstgoal/internal/domain/game"
	"github.com/avsfam/firstgoal/internal/domain/leaderboard"
	"github.com/avsfam/firstgoal/internal/domain/player"
	platformcache "github.com/avsfam/firstgoal/internal/platform/cache"
)

const (
	keyActiveRoster = "roster:active"
	keyAllGames     = "schedule:all"
)

func leaderboardKey(limit int) string {
	return fmt.Sprintf("leaderboard:top:%d", limit)
}

// Layer bundles the decorated repositories and the invalidation hooks the
// write paths call.
type Layer struct {
	rosterStore      *platformcache.Store
	leaderboardStore *platformcache.Store

	Players     *PlayerRepository
	Games       *GameRepository
	Leaderboard *LeaderboardRepository
}

func NewLayer(
	players player.Repository,
	games game.Repository,
	standings leaderboard.Repository,
	rosterTTL, leaderboardTTL time.Duration,
) *Layer {
	rosterStore := platformcache.NewStore(rosterTTL)
	leaderboardStore := platformcache.NewStore(leaderboardTTL)

	return &Layer{
		rosterStore:      rosterStore,
		leaderboardStore: leaderboardStore,
		Players:          &PlayerRepository{inner: players, store: rosterStore},
		Games:            &GameRepository{inner: games, store: rosterStore},
		Leaderboard:      &LeaderboardRepository{inner: standings, store: leaderboardStore},
	}
}

func (l *Layer) InvalidateRoster(ctx context.Context) {
	l.rosterStore.Delete(ctx, keyActiveRoster)
}

func (l *Layer) InvalidateSchedule(ctx context.Context) {
	l.rosterStore.Delete(ctx, keyAllGames)
}

// InvalidateLeaderboard clears the whole standings store because entries are
// keyed per limit and any of them can be stale after a verification.
func (l *Layer) InvalidateLeaderboard(ctx context.Context) {
	l.leaderboardStore.Clear(ctx)
}

// PlayerRepository caches the active-roster read. Everything else goes
// straight through.
type PlayerRepository struct {
	inner player.Repository
	store *platformcache.Store
}

var _ player.Repository = (*PlayerRepository)(nil)

func (r *PlayerRepository) ListActive(ctx context.Context) ([]player.Player, error) {
	value, err := r.store.GetOrLoad(ctx, keyActiveRoster, func(ctx context.Context) (any, error) {
		return r.inner.ListActive(ctx)
	})
	if err != nil {
		return nil, err
	}
	return value.([]player.Player), nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	return r.inner.GetByID(ctx, playerID)
}

func (r *PlayerRepository) DeactivateAll(ctx context.Context) error {
	if err := r.inner.DeactivateAll(ctx); err != nil {
		return err
	}
	r.store.Delete(ctx, keyActiveRoster)
	return nil
}

func (r *PlayerRepository) UpsertMany(ctx context.Context, players []player.Player) error {
	if err := r.inner.UpsertMany(ctx, players); err != nil {
		return err
	}
	r.store.Delete(ctx, keyActiveRoster)
	return nil
}

// GameRepository caches the full schedule read. Point reads skip the cache:
// the started-game check must not act on a stale start time.
type GameRepository struct {
	inner game.Repository
	store *platformcache.Store
}

var _ game.Repository = (*GameRepository)(nil)

func (r *GameRepository) List(ctx context.Context) ([]game.Game, error) {
	value, err := r.store.GetOrLoad(ctx, keyAllGames, func(ctx context.Context) (any, error) {
		return r.inner.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	return value.([]game.Game), nil
}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (game.Game, bool, error) {
	return r.inner.GetByID(ctx, gameID)
}

func (r *GameRepository) ListUnverifiedBefore(ctx context.Context, cutoff time.Time) ([]game.Game, error) {
	return r.inner.ListUnverifiedBefore(ctx, cutoff)
}

func (r *GameRepository) DeleteUnverifiedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	deleted, err := r.inner.DeleteUnverifiedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	r.store.Delete(ctx, keyAllGames)
	return deleted, nil
}

func (r *GameRepository) InsertMany(ctx context.Context, games []game.Game) error {
	if err := r.inner.InsertMany(ctx, games); err != nil {
		return err
	}
	r.store.Delete(ctx, keyAllGames)
	return nil
}

// LeaderboardRepository caches standings per requested limit and supports a
// forced refresh that replaces the cached page.
type LeaderboardRepository struct {
	inner leaderboard.Repository
	store *platformcache.Store
}

var _ leaderboard.Repository = (*LeaderboardRepository)(nil)

func (r *LeaderboardRepository) Top(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	value, err := r.store.GetOrLoad(ctx, leaderboardKey(limit), func(ctx context.Context) (any, error) {
		return r.inner.Top(ctx, limit)
	})
	if err != nil {
		return nil, err
	}
	return value.([]leaderboard.Entry), nil
}

// Refresh recomputes standings from the store and primes the cache with the
// fresh page.
func (r *LeaderboardRepository) Refresh(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	entries, err := r.inner.Top(ctx, limit)
	if err != nil {
		return nil, err
	}
	r.store.Set(ctx, leaderboardKey(limit), entries)
	return entries, nil
}
