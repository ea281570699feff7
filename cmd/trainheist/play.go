package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/trainheist/internal/config"
	"github.com/lox/trainheist/internal/game"
	"github.com/lox/trainheist/internal/randutil"
	"github.com/lox/trainheist/internal/scheduler"
	"github.com/lox/trainheist/internal/simulator"
	"github.com/lox/trainheist/internal/tui"
)

// PlayCmd runs one interactive game in the terminal
type PlayCmd struct {
	Seed      int64  `help:"RNG seed, 0 uses the config seed or a random one"`
	GameCards int    `name:"game-cards" help:"Number of GameCards to play (overrides config)"`
	BotsOnly  bool   `name:"bots-only" help:"Seat a bot in place of every human and watch"`
	Name      string `help:"Name of the human player (overrides config)"`
	Character int    `default:"-1" help:"Character id of the human player (overrides config)"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	human, err := c.apply(cfg)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, closeLog, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	seed := c.Seed
	if seed == 0 {
		seed = cfg.Game.Seed
	}
	seed = randutil.Resolve(seed)
	logger.Info("Starting game", "seed", seed, "human", human, "config", g.Config)

	var program *tea.Program
	bridge := tui.NewBridgeFunc(func(msg tea.Msg) { program.Send(msg) })

	session, err := simulator.NewSession(cfg, seed, logger, scheduler.WithPresenter(bridge))
	if err != nil {
		return err
	}
	defer session.Close()
	session.Bus.Subscribe(bridge)

	model := tui.NewTUIModel(logger, session.Engine, human)
	program = tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		bridge.OnEvent(game.NewStateChangedEvent(game.ChangePosition, "", session.State.Snapshot()))
		err := session.Engine.Run(ctx)
		bridge.Done(err)
		done <- err
	}()

	if _, err := program.Run(); err != nil {
		cancel()
		<-done
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	cancel()
	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	fmt.Printf("Game %s (seed %d)\n", session.Engine.GameID(), seed)
	fmt.Println(standingsTable(session.Engine.Standings()))
	return nil
}

// apply folds the command line overrides into cfg and returns the name of
// the human player, empty when only bots are seated
func (c *PlayCmd) apply(cfg *config.Config) (string, error) {
	if c.GameCards > 0 {
		cfg.Game.GameCardsToPlay = c.GameCards
	}
	if c.BotsOnly {
		cfg.BotsOnly()
		return "", nil
	}

	humans := cfg.Humans()
	switch len(humans) {
	case 0:
		return "", nil
	case 1:
	default:
		return "", fmt.Errorf("only one human seat can play in a terminal, config has %d", len(humans))
	}

	for i := range cfg.Players {
		p := &cfg.Players[i]
		if p.Bot {
			continue
		}
		if c.Name != "" {
			p.Name = c.Name
		}
		if c.Character >= 0 {
			p.Character = c.Character
		}
		return p.Name, nil
	}
	return "", nil
}
