package simulator

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lox/trainheist/internal/config"
	"github.com/lox/trainheist/internal/game"
	"github.com/lox/trainheist/internal/randutil"
	"github.com/lox/trainheist/internal/scheduler"
)

// Session is one fully wired game: board, event bus and scheduler
type Session struct {
	Seed   int64
	State  *game.State
	Bus    *game.SimpleEventBus
	Engine *scheduler.Engine

	closeFn func()
}

// NewSession builds a game from a validated configuration. Extra options
// are applied after the configured bot policies.
func NewSession(cfg *config.Config, seed int64, logger *log.Logger, opts ...scheduler.Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	pool, err := cfg.Pool()
	if err != nil {
		return nil, err
	}
	sc, err := cfg.SchedulerConfig()
	if err != nil {
		return nil, err
	}

	rng := randutil.New(seed)
	bus := game.NewEventBus()
	state := game.NewState(cfg.GameRules(), rng, bus, logger)
	if err := game.Setup(state, cfg.Seats(), game.SetupOptions{
		Pool:    pool,
		MaxHand: cfg.Game.MaxHandSize,
	}); err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}

	policies, closeFn, err := cfg.Policies(randutil.Split(rng), logger)
	if err != nil {
		return nil, err
	}

	engineOpts := []scheduler.Option{scheduler.WithLogger(logger)}
	for name, p := range policies {
		engineOpts = append(engineOpts, scheduler.WithPolicy(name, p))
	}
	engineOpts = append(engineOpts, opts...)

	return &Session{
		Seed:    seed,
		State:   state,
		Bus:     bus,
		Engine:  scheduler.New(state, sc, engineOpts...),
		closeFn: closeFn,
	}, nil
}

// Close releases policy resources
func (s *Session) Close() {
	if s.closeFn != nil {
		s.closeFn()
	}
}
