package game

import (
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 9, 19, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		start time.Time
		want  Phase
	}{
		{"strictly future", now.Add(time.Minute), PhaseUpcoming},
		{"exactly now", now, PhaseInProgress},
		{"one hour in", now.Add(-time.Hour), PhaseInProgress},
		{"just inside window", now.Add(-3*time.Hour + time.Second), PhaseInProgress},
		{"window boundary", now.Add(-3 * time.Hour), PhasePast},
		{"yesterday", now.Add(-24 * time.Hour), PhasePast},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.start, now, DefaultInProgressWindow); got != tc.want {
				t.Fatalf("Classify(%v) = %s, want %s", tc.start, got, tc.want)
			}
		})
	}
}

func TestNextPredictable_PicksNearestUpcoming(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 9, 19, 0, 0, 0, time.UTC)
	games := []Game{
		{ID: "g-later", Opponent: "Dallas Stars", StartTime: now.Add(72 * time.Hour)},
		{ID: "g-past", Opponent: "St. Louis Blues", StartTime: now.Add(-24 * time.Hour)},
		{ID: "g-next", Opponent: "Minnesota Wild", StartTime: now.Add(2 * time.Hour)},
	}

	next, ok := NextPredictable(games, now)
	if !ok {
		t.Fatal("expected an upcoming game")
	}
	if next.ID != "g-next" {
		t.Fatalf("next game = %s, want g-next", next.ID)
	}
}

func TestNextPredictable_NoUpcomingGames(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 9, 19, 0, 0, 0, time.UTC)
	games := []Game{
		{ID: "g-1", Opponent: "Utah", StartTime: now.Add(-48 * time.Hour)},
		{ID: "g-2", Opponent: "Vegas Golden Knights", StartTime: now},
	}

	if _, ok := NextPredictable(games, now); ok {
		t.Fatal("game starting exactly now must not be predictable")
	}
}

func TestValidate_VerifiedRequiresScorer(t *testing.T) {
	t.Parallel()

	g := Game{Opponent: "Chicago Blackhawks", StartTime: time.Now(), Verified: true}
	if err := g.Validate(); err == nil {
		t.Fatal("verified game without scoring player must fail validation")
	}

	g.Verified = false
	g.CorrectPlayerID = "p-1"
	if err := g.Validate(); err == nil {
		t.Fatal("unverified game with scoring player must fail validation")
	}
}
