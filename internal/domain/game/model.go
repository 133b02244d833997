package game

import (
	"fmt"
	"sort"
	"time"
)

// DefaultInProgressWindow covers a full match plus overtime.
const DefaultInProgressWindow = 3 * time.Hour

// Phase classifies a game relative to an instant.
type Phase string

const (
	PhaseUpcoming   Phase = "upcoming"
	PhaseInProgress Phase = "in_progress"
	PhasePast       Phase = "past"
)

// Game is one scheduled match. CorrectPlayerID is set if and only if
// Verified is true, and Verified never reverts to false.
type Game struct {
	ID              string
	Opponent        string
	StartTime       time.Time
	IsHome          bool
	Location        string
	Verified        bool
	CorrectPlayerID string
}

func (g Game) Validate() error {
	if g.Opponent == "" {
		return fmt.Errorf("game opponent is required")
	}
	if g.StartTime.IsZero() {
		return fmt.Errorf("game start time is required")
	}
	if g.Verified && g.CorrectPlayerID == "" {
		return fmt.Errorf("verified game must carry the scoring player")
	}
	if !g.Verified && g.CorrectPlayerID != "" {
		return fmt.Errorf("unverified game cannot carry a scoring player")
	}

	return nil
}

// Classify is the clock policy: strictly-future start times are upcoming,
// starts within the window before now are in progress, everything else past.
// Pure function of the two instants and the window.
func Classify(startTime, now time.Time, window time.Duration) Phase {
	if window <= 0 {
		window = DefaultInProgressWindow
	}
	if startTime.After(now) {
		return PhaseUpcoming
	}
	if now.Sub(startTime) < window {
		return PhaseInProgress
	}
	return PhasePast
}

func (g Game) Phase(now time.Time, window time.Duration) Phase {
	return Classify(g.StartTime, now, window)
}

// HasStarted reports whether predictions are closed for the game. The start
// boundary itself counts as started.
func (g Game) HasStarted(now time.Time) bool {
	return !g.StartTime.After(now)
}

// NextPredictable returns the single nearest game still open for
// predictions.
func NextPredictable(games []Game, now time.Time) (Game, bool) {
	sorted := append([]Game(nil), games...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})

	for _, g := range sorted {
		if !g.HasStarted(now) {
			return g, true
		}
	}

	return Game{}, false
}
