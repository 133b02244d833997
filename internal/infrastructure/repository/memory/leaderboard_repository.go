package memory

import (
	"context"
	"sort"

	"github.com/avsfam/firstgoal/internal/domain/leaderboard"
)

type LeaderboardRepository struct {
	store *Store
}

var _ leaderboard.Repository = (*LeaderboardRepository)(nil)

// Top ranks every user with a profile by accumulated points. Users who have
// never had a game settled show up with zero points, matching how the
// standings look right after signup.
func (r *LeaderboardRepository) Top(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	totals := make(map[string]int)
	for _, p := range r.store.predictions {
		totals[p.UserID]++
	}

	entries := make([]leaderboard.Entry, 0, len(r.store.profiles))
	for userID, profile := range r.store.profiles {
		entry := leaderboard.Entry{
			UserID:           userID,
			Username:         profile.Username,
			TotalPredictions: totals[userID],
			UpdatedAt:        profile.UpdatedAt,
		}
		if st, ok := r.store.stats[userID]; ok {
			entry.Points = st.points
			entry.CorrectPredictions = st.correct
			if st.updatedAt.After(entry.UpdatedAt) {
				entry.UpdatedAt = st.updatedAt
			}
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return leaderboard.Less(entries[i], entries[j])
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
