package game

import (
	"fmt"

	"github.com/lox/trainheist/internal/deck"
)

// Position locates a player on the train. Car and Spot are 1-based.
type Position struct {
	Car    int
	Spot   int
	OnRoof bool
}

// Code renders the position as the board label, t11 inside or r42 on the roof
func (p Position) Code() string {
	prefix := "t"
	if p.OnRoof {
		prefix = "r"
	}
	return fmt.Sprintf("%s%d%d", prefix, p.Car, p.Spot)
}

// SameLayer reports whether both positions share car and roof/inside layer
func (p Position) SameLayer(other Position) bool {
	return p.Car == other.Car && p.OnRoof == other.OnRoof
}

// Player is a bandit on the train
type Player struct {
	Name        string
	Bot         bool
	CharacterID int

	Position Position

	GoldBars int
	Credits  int

	BulletsUsed  int
	MaxBullets   int
	BulletsGiven int

	Deck *deck.Deck
}

// NewPlayer creates a player standing inside car 1
func NewPlayer(name string, bot bool, characterID int, d *deck.Deck) *Player {
	return &Player{
		Name:        name,
		Bot:         bot,
		CharacterID: characterID,
		Position:    Position{Car: 1, Spot: 1},
		Deck:        d,
	}
}

// AddCredits adjusts credits, never dropping below zero
func (p *Player) AddCredits(delta int) {
	p.Credits += delta
	if p.Credits < 0 {
		p.Credits = 0
	}
}

// BulletsLeft returns how many shots the player can still fire
func (p *Player) BulletsLeft() int {
	return max(0, p.MaxBullets-p.BulletsUsed)
}

// OutOfBullets reports whether the player has fired every bullet
func (p *Player) OutOfBullets() bool {
	return p.BulletsUsed >= p.MaxBullets
}

// String returns a compact debug description
func (p *Player) String() string {
	kind := "PLAYER"
	if p.Bot {
		kind = "BOT"
	}
	return fmt.Sprintf("%s %s [%s] bars=%d credits=%d", kind, p.Name, p.Position.Code(), p.GoldBars, p.Credits)
}
