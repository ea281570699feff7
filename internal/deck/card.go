package deck

import (
	"fmt"
	"strings"
)

// Kind identifies an action card. The set is closed: every Kind the resolver
// can receive is listed here.
type Kind int

const (
	Unknown Kind = iota
	MoveHorizontally
	MoveVertically
	Collect
	Punch
	Fire
	MoveSheriff
	DrawAndPass
	Bullet
	// Hidden is the face-down placeholder shown for cards planned in a
	// Tunnel slot. It never appears in a pool or a hand.
	Hidden
)

// Kinds lists every card kind a pool may contain.
var Kinds = []Kind{MoveHorizontally, MoveVertically, Collect, Punch, Fire, MoveSheriff, Bullet}

// String returns the card key used in configuration files and logs
func (k Kind) String() string {
	switch k {
	case MoveHorizontally:
		return "moveHorizontally"
	case MoveVertically:
		return "moveVertically"
	case Collect:
		return "collect"
	case Punch:
		return "punch"
	case Fire:
		return "fire"
	case MoveSheriff:
		return "moveSheriff"
	case DrawAndPass:
		return "drawAndPass"
	case Bullet:
		return "bullet"
	case Hidden:
		return "tunnelBack"
	default:
		return "unknown"
	}
}

// Label returns a short human readable name for display
func (k Kind) Label() string {
	switch k {
	case MoveHorizontally:
		return "Move Horiz."
	case MoveVertically:
		return "Move Vert."
	case Collect:
		return "Collect"
	case Punch:
		return "Punch"
	case Fire:
		return "Fire"
	case MoveSheriff:
		return "Move Sheriff"
	case DrawAndPass:
		return "Draw & Pass"
	case Bullet:
		return "Bullet"
	case Hidden:
		return "Hidden Card"
	default:
		return "?"
	}
}

// Actionable reports whether resolving the card can change the game state.
// Bullets are dead weight and draw-and-pass is applied while planning.
func (k Kind) Actionable() bool {
	switch k {
	case MoveHorizontally, MoveVertically, Collect, Punch, Fire, MoveSheriff:
		return true
	default:
		return false
	}
}

// ParseKind parses a card key. Matching is case-insensitive and accepts the
// historical "moveSherrif" spelling.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movehorizontally", "move_horizontally":
		return MoveHorizontally, nil
	case "movevertically", "move_vertically":
		return MoveVertically, nil
	case "collect":
		return Collect, nil
	case "punch":
		return Punch, nil
	case "fire":
		return Fire, nil
	case "movesheriff", "movesherrif", "move_sheriff":
		return MoveSheriff, nil
	case "drawandpass", "draw_and_pass":
		return DrawAndPass, nil
	case "bullet":
		return Bullet, nil
	default:
		return Unknown, fmt.Errorf("unknown card kind %q", s)
	}
}

// ParseKinds parses a list of card keys
func ParseKinds(keys []string) ([]Kind, error) {
	kinds := make([]Kind, 0, len(keys))
	for _, key := range keys {
		k, err := ParseKind(key)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// DefaultPool returns the ten-card base pool every player starts with
func DefaultPool() []Kind {
	return []Kind{
		Punch, Punch,
		Fire, Fire,
		MoveHorizontally, MoveHorizontally,
		MoveVertically,
		Collect, Collect,
		MoveSheriff,
	}
}
