package bot

import (
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/trainheist/internal/deck"
)

// RandBot plays a uniformly random playable card. Bullet cards are only
// played when nothing else is held. With DrawChance it draws and passes
// instead.
type RandBot struct {
	rng        *rand.Rand
	logger     *log.Logger
	DrawChance float64
}

// NewRandBot creates a new RandBot instance
func NewRandBot(rng *rand.Rand, logger *log.Logger) *RandBot {
	return &RandBot{rng: rng, logger: logger.WithPrefix("randbot")}
}

// Plan picks a random card
func (r *RandBot) Plan(view PlanningView) Decision {
	if r.DrawChance > 0 && r.rng.Float64() < r.DrawChance {
		r.logger.Debug("Drawing instead of playing", "player", view.Player)
		return Decision{DrawAndPass: true}
	}

	var playable []deck.Kind
	for _, k := range view.Hand {
		if k.Actionable() {
			playable = append(playable, k)
		}
	}
	if len(playable) == 0 {
		return FirstCard{}.Plan(view)
	}
	return Decision{Kind: playable[r.rng.IntN(len(playable))]}
}
