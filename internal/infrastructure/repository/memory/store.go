// Package memory backs the repositories with in-process maps. It is the
// store used by tests and by local runs without a database.
package memory

import (
	"sync"
	"time"

	"github.com/avsfam/firstgoal/internal/domain/game"
	"github.com/avsfam/firstgoal/internal/domain/player"
	"github.com/avsfam/firstgoal/internal/domain/prediction"
	"github.com/avsfam/firstgoal/internal/domain/user"
	idgen "github.com/avsfam/firstgoal/internal/platform/id"
)

// Store holds every table behind one mutex so multi-table writes, above all
// game verification, behave like a transaction.
type Store struct {
	mu sync.RWMutex

	players     map[string]player.Player
	games       map[string]game.Game
	predictions map[string]prediction.Prediction
	profiles    map[string]user.Profile
	stats       map[string]*userStats

	ids idgen.Generator
	now func() time.Time
}

type userStats struct {
	points    int
	correct   int
	updatedAt time.Time
}

func NewStore(ids idgen.Generator) *Store {
	if ids == nil {
		ids = idgen.NewRandomGenerator()
	}
	return &Store{
		players:     make(map[string]player.Player),
		games:       make(map[string]game.Game),
		predictions: make(map[string]prediction.Prediction),
		profiles:    make(map[string]user.Profile),
		stats:       make(map[string]*userStats),
		ids:         ids,
		now:         time.Now,
	}
}

func (s *Store) Players() *PlayerRepository         { return &PlayerRepository{store: s} }
func (s *Store) Games() *GameRepository             { return &GameRepository{store: s} }
func (s *Store) Predictions() *PredictionRepository { return &PredictionRepository{store: s} }
func (s *Store) Leaderboard() *LeaderboardRepository {
	return &LeaderboardRepository{store: s}
}
func (s *Store) Profiles() *ProfileRepository { return &ProfileRepository{store: s} }

func (s *Store) statsFor(userID string) *userStats {
	st, ok := s.stats[userID]
	if !ok {
		st = &userStats{}
		s.stats[userID] = st
	}
	return st
}
