package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/avsfam/firstgoal/internal/domain/player"
)

type PlayerRepository struct {
	store *Store
}

var _ player.Repository = (*PlayerRepository)(nil)

func (r *PlayerRepository) ListActive(ctx context.Context) ([]player.Player, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	players := make([]player.Player, 0, len(r.store.players))
	for _, p := range r.store.players {
		if p.IsActive {
			players = append(players, p)
		}
	}
	sort.Slice(players, func(i, j int) bool {
		return player.Less(players[i], players[j])
	})
	return players, nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, id string) (player.Player, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.players[id]
	return p, ok, nil
}

func (r *PlayerRepository) DeactivateAll(ctx context.Context) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, p := range r.store.players {
		p.IsActive = false
		r.store.players[id] = p
	}
	return nil
}

// UpsertMany matches players on (name, number, position) so a re-sync keeps
// existing IDs and the predictions pointing at them.
func (r *PlayerRepository) UpsertMany(ctx context.Context, players []player.Player) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	byIdentity := make(map[string]string, len(r.store.players))
	for id, p := range r.store.players {
		byIdentity[playerIdentity(p)] = id
	}

	for _, p := range players {
		if id, ok := byIdentity[playerIdentity(p)]; ok {
			p.ID = id
			r.store.players[id] = p
			continue
		}
		if p.ID == "" {
			id, err := r.store.ids.NewID()
			if err != nil {
				return fmt.Errorf("generate player id: %w", err)
			}
			p.ID = id
		}
		r.store.players[p.ID] = p
		byIdentity[playerIdentity(p)] = p.ID
	}
	return nil
}

func playerIdentity(p player.Player) string {
	return fmt.Sprintf("%s|%d|%s", strings.ToLower(p.Name), p.Number, p.Position)
}
