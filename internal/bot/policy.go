// Package bot provides planning policies for computer-controlled players.
package bot

import (
	"github.com/lox/trainheist/internal/deck"
	"github.com/lox/trainheist/internal/game"
)

// PlanningView is what a policy sees when it has to plant a card
type PlanningView struct {
	Player   string
	Turn     game.TurnType
	Slot     int
	Hand     []deck.Kind
	Snapshot game.Snapshot
}

// Decision is a policy's answer: a card from the hand, or draw-and-pass
type Decision struct {
	Kind        deck.Kind
	DrawAndPass bool
}

// Policy picks the card a bot plants. Plan is only called with a non-empty
// hand; a Kind not in the hand falls back to the first card.
type Policy interface {
	Plan(view PlanningView) Decision
}

// PolicyFunc adapts a function to Policy
type PolicyFunc func(view PlanningView) Decision

// Plan calls f(view)
func (f PolicyFunc) Plan(view PlanningView) Decision { return f(view) }

// FirstCard always plays the first card in hand, in deal order
type FirstCard struct{}

// Plan returns hand[0]
func (FirstCard) Plan(view PlanningView) Decision {
	if len(view.Hand) == 0 {
		return Decision{DrawAndPass: true}
	}
	return Decision{Kind: view.Hand[0]}
}

// Me returns the view of the planning player
func (v PlanningView) Me() (game.PlayerView, bool) {
	return v.Snapshot.Player(v.Player)
}
