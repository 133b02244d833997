package player

import "fmt"

// Position represents hockey position categories on the roster.
type Position string

const (
	PositionCenter    Position = "Center"
	PositionLeftWing  Position = "Left Wing"
	PositionRightWing Position = "Right Wing"
	PositionDefense   Position = "Defense"
	PositionGoalie    Position = "Goalie"
)

var AllPositions = map[Position]struct{}{
	PositionCenter:    {},
	PositionLeftWing:  {},
	PositionRightWing: {},
	PositionDefense:   {},
	PositionGoalie:    {},
}

// sortRank orders the roster the way fans read it: forwards, then defense,
// then goalies.
var sortRank = map[Position]int{
	PositionCenter:    1,
	PositionLeftWing:  2,
	PositionRightWing: 3,
	PositionDefense:   4,
	PositionGoalie:    5,
}

func (p Position) SortRank() int {
	if rank, ok := sortRank[p]; ok {
		return rank
	}
	return 99
}

// Player is a roster member selectable in first-goal predictions. Players are
// never hard-deleted; roster churn flips IsActive so historical predictions
// keep a valid reference.
type Player struct {
	ID       string
	Name     string
	Number   int
	Position Position
	IsActive bool
}

func (p Player) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if p.Number <= 0 {
		return fmt.Errorf("player number must be greater than zero")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}

	return nil
}

// Less orders players by position rank then jersey number.
func Less(a, b Player) bool {
	if ra, rb := a.Position.SortRank(), b.Position.SortRank(); ra != rb {
		return ra < rb
	}
	return a.Number < b.Number
}
