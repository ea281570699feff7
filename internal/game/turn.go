package game

import (
	"fmt"
	"strings"
)

// TurnType governs actor order and cards per actor inside one slot
type TurnType int

const (
	// Default plays in registration order, one card per player
	Default TurnType = iota
	// Tunnel plays like Default but cards stay face down until resolved
	Tunnel
	// BackToBack has every player plant two consecutive cards
	BackToBack
	// Reverse plays in reversed registration order
	Reverse
)

// String returns the string representation of a turn type
func (t TurnType) String() string {
	switch t {
	case Default:
		return "Default"
	case Tunnel:
		return "Tunnel"
	case BackToBack:
		return "BackToBack"
	case Reverse:
		return "Reverse"
	default:
		return fmt.Sprintf("TurnType(%d)", int(t))
	}
}

// Valid reports whether t is one of the known turn types
func (t TurnType) Valid() bool {
	return t >= Default && t <= Reverse
}

// CardsRequired returns how many cards each actor plants in a slot
func (t TurnType) CardsRequired() int {
	if t == BackToBack {
		return 2
	}
	return 1
}

// Reversed reports whether the slot walks the players backwards
func (t TurnType) Reversed() bool {
	return t == Reverse
}

// Hidden reports whether planned cards are shown face down
func (t TurnType) Hidden() bool {
	return t == Tunnel
}

// ParseTurnType parses a slot name such as "back_to_back" or "Reverse"
func ParseTurnType(s string) (TurnType, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", "")) {
	case "default", "normal":
		return Default, nil
	case "tunnel":
		return Tunnel, nil
	case "backtoback", "double":
		return BackToBack, nil
	case "reverse", "reversed":
		return Reverse, nil
	default:
		return Default, fmt.Errorf("unknown turn type %q", s)
	}
}

// GameCard is an ordered sequence of slots played as one round
type GameCard struct {
	Name  string
	Slots []TurnType
}

// Describe renders the card the way the board shows it, e.g.
// "Card 1: 1-Default  2-Tunnel".
func (gc GameCard) Describe(index int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Card %d: ", index+1)
	for i, t := range gc.Slots {
		if i > 0 {
			sb.WriteString("  ")
		}
		fmt.Fprintf(&sb, "%d-%s", i+1, t)
	}
	return sb.String()
}

// Phase labels when a card was revealed
type Phase string

const (
	PhasePlanning Phase = "Planning"
	PhasePlay     Phase = "Play"
)
