package config

import (
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/trainheist/internal/bot"
	"github.com/lox/trainheist/internal/scheduler"
)

// SchedulerConfig converts the game block for the turn scheduler. Call it
// on a validated configuration.
func (c *Config) SchedulerConfig() (scheduler.Config, error) {
	cards, err := c.GameCardList()
	if err != nil {
		return scheduler.Config{}, err
	}
	d, err := c.Durations()
	if err != nil {
		return scheduler.Config{}, err
	}
	return scheduler.Config{
		GameCards:       cards,
		GameCardsToPlay: c.Game.GameCardsToPlay,
		HandSize:        c.Game.HandSize,
		DrawCount:       c.Game.DrawCount,
		BotDelay:        d.Bot,
		ActionDelay:     d.Action,
		SheriffDelay:    d.Sheriff,
		MessageDelay:    d.Message,
		HumanTimeout:    d.HumanTimeout,
	}, nil
}

// Policies builds the planning policy of every bot seat. The returned close
// function releases script interpreters.
func (c *Config) Policies(rng *rand.Rand, logger *log.Logger) (map[string]bot.Policy, func(), error) {
	policies := make(map[string]bot.Policy)
	var luaBots []*bot.LuaBot
	closeAll := func() {
		for _, b := range luaBots {
			b.Close()
		}
	}

	for _, p := range c.Players {
		if !p.Bot {
			continue
		}
		switch p.Policy {
		case PolicyRandom:
			rb := bot.NewRandBot(rng, logger)
			rb.DrawChance = p.DrawChance
			policies[p.Name] = rb
		case PolicyLua:
			lb, err := bot.LoadLuaBot(p.Script, logger.With("player", p.Name))
			if err != nil {
				closeAll()
				return nil, nil, err
			}
			luaBots = append(luaBots, lb)
			policies[p.Name] = lb
		default:
			policies[p.Name] = bot.FirstCard{}
		}
	}
	return policies, closeAll, nil
}
