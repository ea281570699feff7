package simulator

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/trainheist/internal/config"
	"github.com/lox/trainheist/internal/game"
	"github.com/lox/trainheist/internal/statistics"
)

// Config holds configuration for running simulations
type Config struct {
	Games   int
	Seed    int64
	Workers int
	Timeout time.Duration
	Logger  *log.Logger
	Game    *config.Config
}

// Simulator runs bot-only games in parallel
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration. Every seat is
// turned into a bot and all delays are removed.
func New(cfg Config) *Simulator {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.Game == nil {
		cfg.Game = config.DefaultConfig()
	}

	gameCfg := *cfg.Game
	gameCfg.Players = append([]config.PlayerConfig(nil), cfg.Game.Players...)
	gameCfg.BotsOnly()
	gameCfg.Game.BotDelay = "0s"
	gameCfg.Game.ActionDelay = "0s"
	gameCfg.Game.SheriffDelay = "0s"
	gameCfg.Game.MessageDelay = "0s"
	cfg.Game = &gameCfg

	return &Simulator{config: cfg}
}

// Run plays every game and aggregates the results. Game i uses seed
// Seed+i, so a run is reproducible regardless of worker count.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	if err := s.config.Game.Validate(); err != nil {
		return nil, fmt.Errorf("invalid game config: %w", err)
	}

	results := make([]statistics.GameResult, s.config.Games)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)

	for i := range s.config.Games {
		seed := s.config.Seed + int64(i)
		g.Go(func() error {
			res, err := s.playGame(ctx, seed)
			if err != nil {
				return fmt.Errorf("game %d (seed %d): %w", i+1, seed, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &statistics.Statistics{}
	for _, res := range results {
		stats.Add(res)
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return stats, nil
}

// playGame runs a single game with timeout protection
func (s *Simulator) playGame(ctx context.Context, seed int64) (statistics.GameResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	session, err := NewSession(s.config.Game, seed, s.config.Logger)
	if err != nil {
		return statistics.GameResult{}, err
	}
	defer session.Close()

	if err := session.Engine.Run(ctx); err != nil {
		return statistics.GameResult{}, err
	}

	return gameResult(seed, s.config.Game.Players, session.Engine.Standings()), nil
}

// gameResult records one finished game. Every player tied on the top
// credits is counted as a winner.
func gameResult(seed int64, seats []config.PlayerConfig, standings []game.Standing) statistics.GameResult {
	policies := make(map[string]string, len(seats))
	seatOf := make(map[string]int, len(seats))
	for i, p := range seats {
		policies[p.Name] = p.Policy
		seatOf[p.Name] = i + 1
	}

	res := statistics.GameResult{Seed: seed}
	if len(standings) == 0 {
		return res
	}
	top := standings[0].Credits
	for _, st := range standings {
		res.Players = append(res.Players, statistics.PlayerResult{
			Name:         st.Name,
			Seat:         seatOf[st.Name],
			Policy:       policies[st.Name],
			Credits:      st.Credits,
			GoldBars:     st.GoldBars,
			BulletsGiven: st.BulletsGiven,
			Won:          st.Credits == top,
		})
	}
	return res
}

// RunSimulation is a convenience function for running a simulation with basic parameters
func RunSimulation(ctx context.Context, games int, seed int64, gameCfg *config.Config, logger *log.Logger) (*statistics.Statistics, error) {
	return New(Config{
		Games:  games,
		Seed:   seed,
		Logger: logger,
		Game:   gameCfg,
	}).Run(ctx)
}

// PrintSummary writes a per-player summary of simulation results
func PrintSummary(w io.Writer, stats *statistics.Statistics) {
	fmt.Fprintf(w, "\n=== RESULTS (%d games) ===\n", stats.Games)
	if stats.Ties > 0 {
		fmt.Fprintf(w, "Shared wins: %d games\n", stats.Ties)
	}
	for _, ps := range stats.Players() {
		low, high := ps.Credits.ConfidenceInterval95()
		fmt.Fprintf(w, "\n%s (seat %d, %s)\n", ps.Name, ps.Seat, ps.Policy)
		fmt.Fprintf(w, "  Wins: %d (%.1f%%)\n", ps.Wins, ps.WinRate()*100)
		fmt.Fprintf(w, "  Credits: mean %.1f, median %.1f, std dev %.1f\n",
			ps.Credits.Mean(), ps.Credits.Median(), ps.Credits.StdDev())
		fmt.Fprintf(w, "  95%% CI: [%.1f, %.1f]\n", low, high)
		fmt.Fprintf(w, "  Gold bars: %.2f/game, bullets given: %.2f/game\n",
			ps.GoldBars.Mean(), ps.BulletsGiven.Mean())
	}
}
