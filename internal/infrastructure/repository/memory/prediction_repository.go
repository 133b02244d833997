package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/avsfam/firstgoal/internal/domain/prediction"
)

type PredictionRepository struct {
	store *Store
}

var _ prediction.Repository = (*PredictionRepository)(nil)

func (r *PredictionRepository) Create(ctx context.Context, p prediction.Prediction) (prediction.Prediction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.predictions {
		if existing.UserID == p.UserID && existing.GameID == p.GameID {
			return prediction.Prediction{}, fmt.Errorf("%w: user=%s game=%s", prediction.ErrDuplicate, p.UserID, p.GameID)
		}
	}
	if p.ID == "" {
		id, err := r.store.ids.NewID()
		if err != nil {
			return prediction.Prediction{}, fmt.Errorf("generate prediction id: %w", err)
		}
		p.ID = id
	}
	r.store.predictions[p.ID] = p
	return p, nil
}

func (r *PredictionRepository) ListByUser(ctx context.Context, userID string) ([]prediction.Prediction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var items []prediction.Prediction
	for _, p := range r.store.predictions {
		if p.UserID == userID {
			items = append(items, p)
		}
	}
	sortNewestFirst(items)
	return items, nil
}

func (r *PredictionRepository) ListByGame(ctx context.Context, gameID string) ([]prediction.Prediction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var items []prediction.Prediction
	for _, p := range r.store.predictions {
		if p.GameID == gameID {
			items = append(items, p)
		}
	}
	sortNewestFirst(items)
	return items, nil
}

// VerifyGame settles every pick for the game and applies points under the
// single store lock, so either all users are scored or none are.
func (r *PredictionRepository) VerifyGame(ctx context.Context, gameID, scoringPlayerID string, policy prediction.PointsPolicy) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	g, ok := r.store.games[gameID]
	if !ok {
		return fmt.Errorf("game %s not found", gameID)
	}
	if g.Verified {
		return fmt.Errorf("%w: game=%s", prediction.ErrGameVerified, gameID)
	}

	now := r.store.now().UTC()
	for id, p := range r.store.predictions {
		if p.GameID != gameID {
			continue
		}
		correct := p.PlayerID == scoringPlayerID
		p.IsCorrect = correct
		p.AdminVerified = true
		r.store.predictions[id] = p

		st := r.store.statsFor(p.UserID)
		if correct {
			st.points += policy.Correct
			st.correct++
		} else {
			st.points += policy.Incorrect
		}
		st.updatedAt = now
	}

	g.Verified = true
	g.CorrectPlayerID = scoringPlayerID
	r.store.games[gameID] = g
	return nil
}

func sortNewestFirst(items []prediction.Prediction) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
