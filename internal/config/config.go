// Package config loads game configuration from HCL files.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/trainheist/internal/deck"
	"github.com/lox/trainheist/internal/game"
)

// ErrNoGameCards is returned when no game_card block survives loading
var ErrNoGameCards = errors.New("at least one game_card must be configured")

// Config represents the complete game configuration
type Config struct {
	Game      GameSettings
	Rules     RulesSettings
	Deck      DeckSettings
	GameCards []GameCardConfig
	Players   []PlayerConfig
}

// GameSettings contains pacing and hand configuration
type GameSettings struct {
	GameCardsToPlay int    `hcl:"game_cards_to_play,optional"`
	HandSize        int    `hcl:"hand_size,optional"`
	MaxHandSize     int    `hcl:"max_hand_size,optional"`
	DrawCount       int    `hcl:"draw_count,optional"`
	Seed            int64  `hcl:"seed,optional"`
	BotDelay        string `hcl:"bot_delay,optional"`
	ActionDelay     string `hcl:"action_delay,optional"`
	SheriffDelay    string `hcl:"sheriff_delay,optional"`
	MessageDelay    string `hcl:"message_delay,optional"`
	HumanTimeout    string `hcl:"human_timeout,optional"`
	LogLevel        string `hcl:"log_level,optional"`
	LogFile         string `hcl:"log_file,optional"`
}

// RulesSettings contains the board constants. Pointer fields distinguish an
// explicit zero from a missing value.
type RulesSettings struct {
	Cars          int   `hcl:"cars,optional"`
	Spots         int   `hcl:"spots,optional"`
	MaxBullets    int   `hcl:"max_bullets,optional"`
	FireBonus     *int  `hcl:"fire_bonus,optional"`
	GoldValues    []int `hcl:"gold_values,optional"`
	SheriffStart  int   `hcl:"sheriff_start,optional"`
	InsideGoldMin *int  `hcl:"inside_gold_min,optional"`
	InsideGoldMax *int  `hcl:"inside_gold_max,optional"`
	RoofGoldMin   *int  `hcl:"roof_gold_min,optional"`
	RoofGoldMax   *int  `hcl:"roof_gold_max,optional"`
}

// DeckSettings lists the base pool every player starts with
type DeckSettings struct {
	Cards []string `hcl:"cards,optional"`
}

// GameCardConfig defines one GameCard and its slots
type GameCardConfig struct {
	Name  string   `hcl:"name,label"`
	Slots []string `hcl:"slots"`
}

// PlayerConfig defines a seat at the table
type PlayerConfig struct {
	Name       string  `hcl:"name,label"`
	Bot        bool    `hcl:"bot,optional"`
	Character  int     `hcl:"character,optional"`
	Policy     string  `hcl:"policy,optional"`
	Script     string  `hcl:"script,optional"`
	DrawChance float64 `hcl:"draw_chance,optional"`
}

type fileConfig struct {
	Game      *GameSettings    `hcl:"game,block"`
	Rules     *RulesSettings   `hcl:"rules,block"`
	Deck      *DeckSettings    `hcl:"deck,block"`
	GameCards []GameCardConfig `hcl:"game_card,block"`
	Players   []PlayerConfig   `hcl:"player,block"`
}

// Policies a bot can be configured with
const (
	PolicyFirst  = "first"
	PolicyRandom = "random"
	PolicyLua    = "lua"
)

// DefaultConfig returns the configuration of the standard game: one human
// against three bots, four GameCards drawn from six.
func DefaultConfig() *Config {
	cfg := &Config{
		Game: defaultGameSettings(),
		Rules: RulesSettings{
			GoldValues: []int{200, 250, 300},
		},
		GameCards: []GameCardConfig{
			{Name: "station", Slots: []string{"default", "default", "tunnel"}},
			{Name: "bridge", Slots: []string{"default", "back_to_back", "default"}},
			{Name: "tunnel", Slots: []string{"tunnel", "tunnel", "default"}},
			{Name: "switchback", Slots: []string{"default", "reverse", "default"}},
			{Name: "express", Slots: []string{"back_to_back", "default"}},
			{Name: "canyon", Slots: []string{"default", "tunnel", "back_to_back", "reverse"}},
		},
		Players: []PlayerConfig{
			{Name: "Player"},
			{Name: "Bot 1", Bot: true, Policy: PolicyFirst},
			{Name: "Bot 2", Bot: true, Policy: PolicyFirst},
			{Name: "Bot 3", Bot: true, Policy: PolicyFirst},
		},
	}
	cfg.Rules.applyDefaults()
	return cfg
}

func defaultGameSettings() GameSettings {
	return GameSettings{
		GameCardsToPlay: 4,
		HandSize:        6,
		MaxHandSize:     10,
		DrawCount:       2,
		BotDelay:        "500ms",
		ActionDelay:     "500ms",
		SheriffDelay:    "500ms",
		MessageDelay:    "500ms",
		HumanTimeout:    "0s",
		LogLevel:        "info",
		LogFile:         "trainheist.log",
	}
}

// Load loads configuration from an HCL file. A missing file yields the
// default configuration.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var fc fileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &fc)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	defaults := DefaultConfig()
	cfg := &Config{
		GameCards: fc.GameCards,
		Players:   fc.Players,
	}

	if fc.Game != nil {
		cfg.Game = *fc.Game
	}
	cfg.Game.applyDefaults(defaults.Game)

	if fc.Rules != nil {
		cfg.Rules = *fc.Rules
	}
	cfg.Rules.applyDefaults()

	if fc.Deck != nil {
		cfg.Deck = *fc.Deck
	}

	if len(cfg.GameCards) == 0 {
		cfg.GameCards = defaults.GameCards
	}
	if len(cfg.Players) == 0 {
		cfg.Players = defaults.Players
	}
	for i := range cfg.Players {
		if cfg.Players[i].Bot && cfg.Players[i].Policy == "" {
			cfg.Players[i].Policy = PolicyFirst
		}
	}

	return cfg, nil
}

func (g *GameSettings) applyDefaults(d GameSettings) {
	if g.GameCardsToPlay == 0 {
		g.GameCardsToPlay = d.GameCardsToPlay
	}
	if g.HandSize == 0 {
		g.HandSize = d.HandSize
	}
	if g.MaxHandSize == 0 {
		g.MaxHandSize = d.MaxHandSize
	}
	if g.DrawCount == 0 {
		g.DrawCount = d.DrawCount
	}
	if g.BotDelay == "" {
		g.BotDelay = d.BotDelay
	}
	if g.ActionDelay == "" {
		g.ActionDelay = d.ActionDelay
	}
	if g.SheriffDelay == "" {
		g.SheriffDelay = d.SheriffDelay
	}
	if g.MessageDelay == "" {
		g.MessageDelay = d.MessageDelay
	}
	if g.HumanTimeout == "" {
		g.HumanTimeout = d.HumanTimeout
	}
	if g.LogLevel == "" {
		g.LogLevel = d.LogLevel
	}
	if g.LogFile == "" {
		g.LogFile = d.LogFile
	}
}

func (r *RulesSettings) applyDefaults() {
	d := game.DefaultRules()
	if r.Cars == 0 {
		r.Cars = d.Cars
	}
	if r.Spots == 0 {
		r.Spots = d.Spots
	}
	if r.MaxBullets == 0 {
		r.MaxBullets = d.MaxBullets
	}
	if r.FireBonus == nil {
		r.FireBonus = intPtr(d.FireBonus)
	}
	if len(r.GoldValues) == 0 {
		r.GoldValues = d.GoldValues
	}
	if r.SheriffStart == 0 {
		r.SheriffStart = r.Cars
	}
	if r.InsideGoldMin == nil {
		r.InsideGoldMin = intPtr(d.InsideGold[0])
	}
	if r.InsideGoldMax == nil {
		r.InsideGoldMax = intPtr(d.InsideGold[1])
	}
	if r.RoofGoldMin == nil {
		r.RoofGoldMin = intPtr(d.RoofGold[0])
	}
	if r.RoofGoldMax == nil {
		r.RoofGoldMax = intPtr(d.RoofGold[1])
	}
}

func intPtr(v int) *int { return &v }

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.GameCards) == 0 {
		return ErrNoGameCards
	}
	if c.Game.GameCardsToPlay < 1 {
		return fmt.Errorf("game_cards_to_play must be positive")
	}
	if c.Game.HandSize < 1 {
		return fmt.Errorf("hand_size must be positive")
	}
	if c.Game.MaxHandSize < c.Game.HandSize {
		return fmt.Errorf("max_hand_size %d is smaller than hand_size %d", c.Game.MaxHandSize, c.Game.HandSize)
	}
	if c.Game.DrawCount < 0 {
		return fmt.Errorf("draw_count cannot be negative")
	}
	if _, err := c.Durations(); err != nil {
		return err
	}
	if _, err := c.Pool(); err != nil {
		return err
	}
	if _, err := c.GameCardList(); err != nil {
		return err
	}
	if err := c.GameRules().Validate(); err != nil {
		return fmt.Errorf("rules: %w", err)
	}

	if len(c.Players) == 0 {
		return fmt.Errorf("at least one player must be configured")
	}
	if len(c.Players) > c.Rules.Spots {
		return fmt.Errorf("%d players do not fit %d spots", len(c.Players), c.Rules.Spots)
	}
	seen := make(map[string]bool)
	for _, p := range c.Players {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("player name cannot be empty")
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate player %q", p.Name)
		}
		seen[p.Name] = true
		if !p.Bot {
			continue
		}
		switch p.Policy {
		case PolicyFirst, PolicyRandom:
		case PolicyLua:
			if p.Script == "" {
				return fmt.Errorf("player %s: lua policy needs a script", p.Name)
			}
		default:
			return fmt.Errorf("player %s: invalid policy %q", p.Name, p.Policy)
		}
		if p.DrawChance < 0 || p.DrawChance > 1 {
			return fmt.Errorf("player %s: draw_chance must be within [0,1]", p.Name)
		}
	}
	return nil
}

// Durations holds the parsed pacing values
type Durations struct {
	Bot, Action, Sheriff, Message, HumanTimeout time.Duration
}

// Durations parses the duration strings of the game block
func (c *Config) Durations() (Durations, error) {
	var d Durations
	fields := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"bot_delay", c.Game.BotDelay, &d.Bot},
		{"action_delay", c.Game.ActionDelay, &d.Action},
		{"sheriff_delay", c.Game.SheriffDelay, &d.Sheriff},
		{"message_delay", c.Game.MessageDelay, &d.Message},
		{"human_timeout", c.Game.HumanTimeout, &d.HumanTimeout},
	}
	for _, f := range fields {
		v, err := time.ParseDuration(f.raw)
		if err != nil {
			return d, fmt.Errorf("%s: %w", f.name, err)
		}
		if v < 0 {
			return d, fmt.Errorf("%s cannot be negative", f.name)
		}
		*f.dst = v
	}
	return d, nil
}

// Pool returns the base card pool, the default pool when none is configured
func (c *Config) Pool() ([]deck.Kind, error) {
	if len(c.Deck.Cards) == 0 {
		return deck.DefaultPool(), nil
	}
	kinds, err := deck.ParseKinds(c.Deck.Cards)
	if err != nil {
		return nil, fmt.Errorf("deck: %w", err)
	}
	for _, k := range kinds {
		if k == deck.DrawAndPass {
			return nil, fmt.Errorf("deck: drawAndPass is not a card")
		}
	}
	return kinds, nil
}

// GameCardList converts the game_card blocks
func (c *Config) GameCardList() ([]game.GameCard, error) {
	out := make([]game.GameCard, 0, len(c.GameCards))
	for _, gc := range c.GameCards {
		card := game.GameCard{Name: gc.Name, Slots: make([]game.TurnType, 0, len(gc.Slots))}
		for _, s := range gc.Slots {
			t, err := game.ParseTurnType(s)
			if err != nil {
				return nil, fmt.Errorf("game_card %s: %w", gc.Name, err)
			}
			card.Slots = append(card.Slots, t)
		}
		out = append(out, card)
	}
	return out, nil
}

// GameRules converts the rules block
func (c *Config) GameRules() game.Rules {
	r := c.Rules
	return game.Rules{
		Cars:         r.Cars,
		Spots:        r.Spots,
		MaxBullets:   r.MaxBullets,
		FireBonus:    deref(r.FireBonus),
		GoldValues:   r.GoldValues,
		SheriffStart: r.SheriffStart,
		InsideGold:   [2]int{deref(r.InsideGoldMin), deref(r.InsideGoldMax)},
		RoofGold:     [2]int{deref(r.RoofGoldMin), deref(r.RoofGoldMax)},
	}
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// Seats converts the player blocks into seats in registration order
func (c *Config) Seats() []game.Seat {
	seats := make([]game.Seat, len(c.Players))
	for i, p := range c.Players {
		seats[i] = game.Seat{Name: p.Name, Bot: p.Bot, CharacterID: p.Character}
	}
	return seats
}

// Humans returns the names of the non-bot players
func (c *Config) Humans() []string {
	var out []string
	for _, p := range c.Players {
		if !p.Bot {
			out = append(out, p.Name)
		}
	}
	return out
}

// BotsOnly turns every human seat into a bot playing the default policy
func (c *Config) BotsOnly() {
	for i := range c.Players {
		if !c.Players[i].Bot {
			c.Players[i].Bot = true
			c.Players[i].Policy = PolicyFirst
		}
	}
}
