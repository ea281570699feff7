package game

import (
	"slices"
	"sort"

	"github.com/lox/trainheist/internal/deck"
)

// PlayerView is a read-only copy of a player for the presentation layer
type PlayerView struct {
	Name            string
	Bot             bool
	CharacterID     int
	Position        Position
	GoldBars        int
	Credits         int
	BulletsUsed     int
	MaxBullets      int
	BulletsGiven    int
	BulletsReceived int
	Hand            []deck.Kind
}

// Snapshot is an immutable copy of the whole game state
type Snapshot struct {
	Players    []PlayerView
	Wagons     []Wagon
	SheriffCar int
}

// Player returns the view of the named player
func (s Snapshot) Player(name string) (PlayerView, bool) {
	for _, p := range s.Players {
		if p.Name == name {
			return p, true
		}
	}
	return PlayerView{}, false
}

// Scoreboard returns the players ranked by gold bars, most first
func (s Snapshot) Scoreboard() []PlayerView {
	rows := slices.Clone(s.Players)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].GoldBars > rows[j].GoldBars
	})
	return rows
}

// Standing is one row of the final results handed to the results layer
type Standing struct {
	Name         string
	GoldBars     int
	Credits      int
	Bot          bool
	BulletsGiven int
	CharacterID  int
}

func viewOf(p *Player) PlayerView {
	v := PlayerView{
		Name:         p.Name,
		Bot:          p.Bot,
		CharacterID:  p.CharacterID,
		Position:     p.Position,
		GoldBars:     p.GoldBars,
		Credits:      p.Credits,
		BulletsUsed:  p.BulletsUsed,
		MaxBullets:   p.MaxBullets,
		BulletsGiven: p.BulletsGiven,
	}
	if p.Deck != nil {
		v.Hand = p.Deck.Hand()
		v.BulletsReceived = p.Deck.BulletsReceived()
	}
	return v
}

// Standings summarises the players sorted by credits, highest first. Ties
// keep registration order.
func Standings(players []*Player) []Standing {
	out := make([]Standing, 0, len(players))
	for _, p := range players {
		out = append(out, Standing{
			Name:         p.Name,
			GoldBars:     p.GoldBars,
			Credits:      p.Credits,
			Bot:          p.Bot,
			BulletsGiven: p.BulletsGiven,
			CharacterID:  p.CharacterID,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Credits > out[j].Credits
	})
	return out
}
