package leaderboard

import "time"

// Entry is a derived per-user aggregate over verified predictions. It is a
// projection: the scoring transition is its only writer and it can be
// recomputed from predictions at any time.
type Entry struct {
	UserID             string
	Username           string
	CorrectPredictions int
	TotalPredictions   int
	Points             int
	UpdatedAt          time.Time
}

// Less is the ranking order: points descending, then correct predictions
// descending, then user ID ascending as a stable deterministic tiebreak.
func Less(a, b Entry) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	if a.CorrectPredictions != b.CorrectPredictions {
		return a.CorrectPredictions > b.CorrectPredictions
	}
	return a.UserID < b.UserID
}
