package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/avsfam/firstgoal/internal/domain/game"
)

type GameRepository struct {
	store *Store
}

var _ game.Repository = (*GameRepository)(nil)

func (r *GameRepository) List(ctx context.Context) ([]game.Game, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	games := make([]game.Game, 0, len(r.store.games))
	for _, g := range r.store.games {
		games = append(games, g)
	}
	sortByStart(games)
	return games, nil
}

func (r *GameRepository) GetByID(ctx context.Context, id string) (game.Game, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	g, ok := r.store.games[id]
	return g, ok, nil
}

func (r *GameRepository) ListUnverifiedBefore(ctx context.Context, cutoff time.Time) ([]game.Game, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var games []game.Game
	for _, g := range r.store.games {
		if !g.Verified && g.StartTime.Before(cutoff) {
			games = append(games, g)
		}
	}
	sortByStart(games)
	return games, nil
}

func (r *GameRepository) DeleteUnverifiedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	deleted := 0
	for id, g := range r.store.games {
		if !g.Verified && g.StartTime.Before(cutoff) {
			delete(r.store.games, id)
			deleted++
		}
	}
	return deleted, nil
}

// InsertMany matches games on (start time, opponent) and leaves existing
// rows alone, so re-running a schedule sync never duplicates a slate.
func (r *GameRepository) InsertMany(ctx context.Context, games []game.Game) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	byIdentity := make(map[string]struct{}, len(r.store.games))
	for _, g := range r.store.games {
		byIdentity[gameIdentity(g)] = struct{}{}
	}

	for _, g := range games {
		if _, ok := byIdentity[gameIdentity(g)]; ok {
			continue
		}
		if g.ID == "" {
			id, err := r.store.ids.NewID()
			if err != nil {
				return fmt.Errorf("generate game id: %w", err)
			}
			g.ID = id
		}
		r.store.games[g.ID] = g
		byIdentity[gameIdentity(g)] = struct{}{}
	}
	return nil
}

func gameIdentity(g game.Game) string {
	return fmt.Sprintf("%d|%s", g.StartTime.UTC().Unix(), g.Opponent)
}

func sortByStart(games []game.Game) {
	sort.Slice(games, func(i, j int) bool {
		if games[i].StartTime.Equal(games[j].StartTime) {
			return games[i].ID < games[j].ID
		}
		return games[i].StartTime.Before(games[j].StartTime)
	})
}
