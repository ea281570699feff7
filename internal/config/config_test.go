package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/trainheist/internal/bot"
	"github.com/lox/trainheist/internal/deck"
	"github.com/lox/trainheist/internal/game"
	"github.com/lox/trainheist/internal/randutil"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trainheist.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 4, cfg.Game.GameCardsToPlay)
	assert.Len(t, cfg.GameCards, 6)
	assert.Equal(t, []string{"Player"}, cfg.Humans())
	assert.Equal(t, game.DefaultRules(), cfg.GameRules())

	pool, err := cfg.Pool()
	require.NoError(t, err)
	assert.Equal(t, deck.DefaultPool(), pool)
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
game {
  game_cards_to_play = 1
  hand_size          = 5
  seed               = 1234
  bot_delay          = "0s"
  human_timeout      = "30s"
}

rules {
  cars        = 5
  fire_bonus  = 0
  gold_values = [250]
  roof_gold_max = 0
}

deck {
  cards = ["collect", "collect", "moveSherrif", "punch"]
}

game_card "sprint" {
  slots = ["default", "back_to_back"]
}

game_card "idle" {
  slots = []
}

player "Ana" {
  character = 2
}

player "Bot" {
  bot    = true
  policy = "random"
  draw_chance = 0.25
}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, int64(1234), cfg.Game.Seed)
	assert.Equal(t, 5, cfg.Game.HandSize)
	assert.Equal(t, 10, cfg.Game.MaxHandSize)

	rules := cfg.GameRules()
	assert.Equal(t, 5, rules.Cars)
	assert.Equal(t, 5, rules.SheriffStart)
	assert.Equal(t, 0, rules.FireBonus)
	assert.Equal(t, [2]int{0, 0}, rules.RoofGold)
	assert.Equal(t, [2]int{1, 3}, rules.InsideGold)

	pool, err := cfg.Pool()
	require.NoError(t, err)
	assert.Equal(t, []deck.Kind{deck.Collect, deck.Collect, deck.MoveSheriff, deck.Punch}, pool)

	cards, err := cfg.GameCardList()
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, []game.TurnType{game.Default, game.BackToBack}, cards[0].Slots)
	assert.Empty(t, cards[1].Slots)

	sc, err := cfg.SchedulerConfig()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), sc.BotDelay)
	assert.Equal(t, 500*time.Millisecond, sc.ActionDelay)
	assert.Equal(t, 30*time.Second, sc.HumanTimeout)

	assert.Equal(t, []game.Seat{{Name: "Ana", CharacterID: 2}, {Name: "Bot", Bot: true}}, cfg.Seats())

	policies, closeAll, err := cfg.Policies(randutil.New(1), log.New(io.Discard))
	require.NoError(t, err)
	defer closeAll()
	assert.IsType(t, &bot.RandBot{}, policies["Bot"])
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no game cards", func(c *Config) { c.GameCards = nil }},
		{"bad slot", func(c *Config) { c.GameCards[0].Slots = []string{"sideways"} }},
		{"bad card", func(c *Config) { c.Deck.Cards = []string{"teleport"} }},
		{"bad duration", func(c *Config) { c.Game.BotDelay = "soon" }},
		{"hand over max", func(c *Config) { c.Game.HandSize = 12 }},
		{"duplicate player", func(c *Config) { c.Players[1].Name = "Player" }},
		{"bad policy", func(c *Config) { c.Players[1].Policy = "genius" }},
		{"lua without script", func(c *Config) { c.Players[1].Policy = PolicyLua }},
		{"too many players", func(c *Config) {
			c.Players = append(c.Players, PlayerConfig{Name: "Bot 4", Bot: true, Policy: PolicyFirst})
		}},
		{"sheriff off train", func(c *Config) { c.Rules.SheriffStart = 9 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := DefaultConfig()
	cfg.GameCards = nil
	assert.ErrorIs(t, cfg.Validate(), ErrNoGameCards)
}

func TestBotsOnly(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BotsOnly()
	assert.Empty(t, cfg.Humans())
	require.NoError(t, cfg.Validate())
}

func TestLuaPolicyFromConfig(t *testing.T) {
	script := filepath.Join(t.TempDir(), "greedy.lua")
	require.NoError(t, os.WriteFile(script, []byte(`function plan(view) return view.hand[1] end`), 0o644))

	cfg := DefaultConfig()
	cfg.Players[1].Policy = PolicyLua
	cfg.Players[1].Script = script
	require.NoError(t, cfg.Validate())

	policies, closeAll, err := cfg.Policies(randutil.New(1), log.New(io.Discard))
	require.NoError(t, err)
	defer closeAll()
	assert.IsType(t, &bot.LuaBot{}, policies["Bot 1"])
	assert.IsType(t, bot.FirstCard{}, policies["Bot 2"])
}

func TestParseErrors(t *testing.T) {
	_, err := Load(writeConfig(t, `game {`))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, `game { hand_size = "six" }`))
	assert.Error(t, err)
}

func TestExampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "examples", "trainheist.hcl"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	defaults := DefaultConfig()
	assert.Equal(t, defaults.Game, cfg.Game)
	assert.Equal(t, defaults.GameRules(), cfg.GameRules())
	assert.Equal(t, len(defaults.GameCards), len(cfg.GameCards))

	pool, err := cfg.Pool()
	require.NoError(t, err)
	assert.ElementsMatch(t, deck.DefaultPool(), pool)

	require.Len(t, cfg.Players, 4)
	assert.Equal(t, PolicyLua, cfg.Players[3].Policy)

	// Scripts resolve relative to the working directory, the repo root in practice
	cfg.Players[3].Script = filepath.Join("..", "..", cfg.Players[3].Script)
	policies, closeAll, err := cfg.Policies(randutil.New(1), log.New(io.Discard))
	require.NoError(t, err)
	defer closeAll()
	assert.IsType(t, &bot.LuaBot{}, policies["Bot 3"])
	assert.IsType(t, &bot.RandBot{}, policies["Bot 2"])
}
