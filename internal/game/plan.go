package game

import (
	"fmt"

	"github.com/lox/trainheist/internal/deck"
)

// PlannedAction is a card planted by a player during planning, waiting to be
// resolved in order.
type PlannedAction struct {
	Player *Player
	Kind   deck.Kind
	Turn   TurnType
	Slot   int
}

// String returns a compact "name:kind" form used in logs and tests
func (pa PlannedAction) String() string {
	return fmt.Sprintf("%s:%s", pa.Player.Name, pa.Kind)
}

// Owner returns the name of the planning player
func (pa PlannedAction) Owner() string {
	if pa.Player == nil {
		return ""
	}
	return pa.Player.Name
}
