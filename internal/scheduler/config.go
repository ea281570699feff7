package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/lox/trainheist/internal/game"
)

var (
	// ErrNoGameCards is returned when the engine has no GameCards to play
	ErrNoGameCards = errors.New("no game cards configured")
	// ErrInvalidSlot is returned for a GameCard slot with an unknown turn type
	ErrInvalidSlot = errors.New("invalid game card slot")
)

// Config holds the scheduling parameters of one game
type Config struct {
	GameCards       []game.GameCard
	GameCardsToPlay int
	HandSize        int
	DrawCount       int

	BotDelay     time.Duration // pause before each bot decision
	ActionDelay  time.Duration // pause after each resolved action
	SheriffDelay time.Duration // pause before each sheriff check
	MessageDelay time.Duration // pause after an outcome shown to a human
	HumanTimeout time.Duration // zero waits for humans forever
}

// Validate reports configuration that must stop the game before planning
func (c Config) Validate() error {
	if len(c.GameCards) == 0 {
		return ErrNoGameCards
	}
	for _, gc := range c.GameCards {
		for i, slot := range gc.Slots {
			if !slot.Valid() {
				return fmt.Errorf("%w: %q slot %d is %s", ErrInvalidSlot, gc.Name, i+1, slot)
			}
		}
	}
	if c.GameCardsToPlay < 1 {
		return fmt.Errorf("game cards to play must be positive, got %d", c.GameCardsToPlay)
	}
	if c.HandSize < 1 {
		return fmt.Errorf("hand size must be positive, got %d", c.HandSize)
	}
	if c.DrawCount < 0 {
		return fmt.Errorf("draw count cannot be negative, got %d", c.DrawCount)
	}
	for _, d := range []time.Duration{c.BotDelay, c.ActionDelay, c.SheriffDelay, c.MessageDelay, c.HumanTimeout} {
		if d < 0 {
			return fmt.Errorf("delays cannot be negative, got %s", d)
		}
	}
	return nil
}
