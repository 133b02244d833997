package usecase

import (
	"context"
	"fmt"

	"github.com/avsfam/firstgoal/internal/domain/leaderboard"
)

// DefaultLeaderboardLimit caps the standings page when the caller does not
// ask for a specific size.
const DefaultLeaderboardLimit = 10

// MaxLeaderboardLimit bounds how many rows a single request may pull.
const MaxLeaderboardLimit = 100

// LeaderboardReader extends the repository with a cache-bypassing read for
// callers that just settled a game and want fresh standings.
type LeaderboardReader interface {
	leaderboard.Repository

	// Refresh recomputes standings from the store, replacing any cached copy.
	Refresh(ctx context.Context, limit int) ([]leaderboard.Entry, error)
}

type LeaderboardService struct {
	reader LeaderboardReader
}

func NewLeaderboardService(reader LeaderboardReader) *LeaderboardService {
	return &LeaderboardService{reader: reader}
}

// Top returns the standings page. Limit is clamped to [1, MaxLeaderboardLimit]
// with zero and negatives falling back to DefaultLeaderboardLimit.
func (s *LeaderboardService) Top(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Top")
	defer span.End()

	entries, err := s.reader.Top(ctx, clampLeaderboardLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}
	return entries, nil
}

// Refresh bypasses the cache and returns standings straight from the store.
func (s *LeaderboardService) Refresh(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Refresh")
	defer span.End()

	entries, err := s.reader.Refresh(ctx, clampLeaderboardLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("refresh leaderboard: %w", err)
	}
	return entries, nil
}

// DirectLeaderboardReader adapts an uncached repository to LeaderboardReader.
// With no cache in front, a refresh is just another read.
type DirectLeaderboardReader struct {
	leaderboard.Repository
}

func (r DirectLeaderboardReader) Refresh(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	return r.Top(ctx, limit)
}

func clampLeaderboardLimit(limit int) int {
	if limit <= 0 {
		return DefaultLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		return MaxLeaderboardLimit
	}
	return limit
}
