package player

import (
	"fmt"

	"github.com/riskibarqy/fpl-hub/internal/platform/id"
)

// Position represents football position categories used in roster rules.
type Position string

const (
	PositionGoalkeeper Position = "GKP"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FWD"
)

// Positions lists every position in squad display order.
var Positions = []Position{
	PositionGoalkeeper,
	PositionDefender,
	PositionMidfielder,
	PositionForward,
}

var AllPositions = map[Position]struct{}{
	PositionGoalkeeper: {},
	PositionDefender:   {},
	PositionMidfielder: {},
	PositionForward:    {},
}

// PositionFromElementType maps the upstream numeric position class.
func PositionFromElementType(elementType int) (Position, bool) {
	switch elementType {
	case 1:
		return PositionGoalkeeper, true
	case 2:
		return PositionDefender, true
	case 3:
		return PositionMidfielder, true
	case 4:
		return PositionForward, true
	default:
		return "", false
	}
}

// Player is a priced, positioned athlete as resolved by the catalog.
// Price is expressed in tenths of a million (55 == 5.5M).
type Player struct {
	ID       id.ID
	ClubID   string
	ClubName string
	Name     string
	Position Position
	Price    int64
}

func (p Player) Validate() error {
	if p.ID.IsZero() {
		return fmt.Errorf("player id is required")
	}
	if p.ClubID == "" {
		return fmt.Errorf("player club id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}
	if p.Price <= 0 {
		return fmt.Errorf("player price must be greater than zero")
	}

	return nil
}
