package main

import (
	"fmt"
	"strings"

	"github.com/lox/trainheist/internal/deck"
)

// CheckConfigCmd loads and validates the configuration without playing
type CheckConfigCmd struct{}

func (c *CheckConfigCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	cards, err := cfg.GameCardList()
	if err != nil {
		return err
	}
	pool, err := cfg.Pool()
	if err != nil {
		return err
	}
	durations, err := cfg.Durations()
	if err != nil {
		return err
	}
	rules := cfg.GameRules()

	fmt.Println(titleStyle.Render(g.Config + " is valid"))
	fmt.Printf("Train: %d cars x %d spots, sheriff starts in car %d\n", rules.Cars, rules.Spots, rules.SheriffStart)
	fmt.Printf("Gold values: %v, fire bonus %d, %d bullets\n", rules.GoldValues, rules.FireBonus, rules.MaxBullets)
	fmt.Printf("Hands: %d cards, draw %d, cap %d\n", cfg.Game.HandSize, cfg.Game.DrawCount, cfg.Game.MaxHandSize)
	fmt.Printf("Delays: bot %s, action %s, sheriff %s, message %s\n",
		durations.Bot, durations.Action, durations.Sheriff, durations.Message)

	labels := make([]string, len(pool))
	for i, k := range pool {
		labels[i] = k.Label()
	}
	fmt.Printf("Deck: %s\n\n", strings.Join(labels, ", "))

	gc := newTable("GameCard", "Slots")
	for i, card := range cards {
		gc.Row(card.Name, strings.TrimPrefix(card.Describe(i), fmt.Sprintf("Card %d: ", i+1)))
	}
	fmt.Printf("Playing %d of:\n%s\n", cfg.Game.GameCardsToPlay, gc.String())

	seats := newTable("Seat", "Player", "Kind", "Character", "Policy")
	for i, p := range cfg.Players {
		kind, policy := "human", "-"
		if p.Bot {
			kind, policy = "bot", p.Policy
		}
		if p.Script != "" {
			policy += " (" + p.Script + ")"
		}
		seats.Row(fmt.Sprint(i+1), p.Name, kind, fmt.Sprint(p.Character), policy)
	}
	fmt.Println(seats.String())

	if !containsActionable(pool) {
		fmt.Println(warningStyle.Render("deck has no actionable cards, every game will be a no-op"))
	}
	return nil
}

func containsActionable(pool []deck.Kind) bool {
	for _, k := range pool {
		if k.Actionable() {
			return true
		}
	}
	return false
}
