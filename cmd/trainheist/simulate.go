package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lox/trainheist/internal/fileutil"
	"github.com/lox/trainheist/internal/randutil"
	"github.com/lox/trainheist/internal/simulator"
)

// SimulateCmd plays many bot-only games in parallel
type SimulateCmd struct {
	Games   int           `short:"n" default:"1000" help:"Number of games to simulate"`
	Workers int           `default:"0" help:"Concurrent games (0 uses GOMAXPROCS)"`
	Seed    int64         `help:"Seed of the first game, 0 uses the config seed or a random one"`
	Timeout time.Duration `default:"10s" help:"Per-game timeout"`
	Verbose bool          `help:"Print the long per-player summary as well"`
	Output  string        `short:"o" type:"path" help:"Write a JSON summary to this file"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if c.Games <= 0 {
		return fmt.Errorf("games must be positive, got %d", c.Games)
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

	ctx, cancel := signalContext(logger)
	defer cancel()

	logger.Info("Starting simulation", "games", c.Games, "seed", seed, "workers", c.Workers)
	start := time.Now()

	stats, err := simulator.New(simulator.Config{
		Games:   c.Games,
		Seed:    seed,
		Workers: c.Workers,
		Timeout: c.Timeout,
		Logger:  logger,
		Game:    cfg,
	}).Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	elapsed := time.Since(start)
	logger.Info("Simulation complete", "games", stats.Games, "elapsed", elapsed)

	if c.Output != "" {
		if err := fileutil.WriteJSON(c.Output, stats.Summarize()); err != nil {
			return err
		}
		logger.Info("Wrote summary", "path", c.Output)
	}

	fmt.Println(statisticsTable(stats))
	if c.Verbose {
		simulator.PrintSummary(os.Stdout, stats)
	}
	fmt.Printf("\nSeeds %d..%d, %.0f games/sec\n", seed, seed+int64(c.Games)-1, float64(stats.Games)/elapsed.Seconds())
	return nil
}
