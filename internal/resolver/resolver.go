// Package resolver executes planned action cards against the game state.
//
// Bots resolve their choices immediately with a seeded random source. Human
// choices are delegated to a Chooser; when none is wired, or it fails, the
// action completes as a no-op instead of blocking the game.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/trainheist/internal/deck"
	"github.com/lox/trainheist/internal/game"
)

// ErrNoChooser is reported when a human choice is needed but nothing can ask
var ErrNoChooser = errors.New("no chooser wired for human choices")

// ChoiceRequest describes what a human must pick to finish resolving a card.
// Exactly one of Targets, Directions or Confirm is meaningful per request.
type ChoiceRequest struct {
	Player     string
	Kind       deck.Kind
	Targets    []string
	Directions []int
	Confirm    bool
	Message    string
}

// Choice is the human's answer to a ChoiceRequest
type Choice struct {
	Target    string
	Direction int
	Confirmed bool
}

// Chooser asks a human player to complete a resolution. It blocks until the
// player answers or ctx is done.
type Chooser interface {
	Choose(ctx context.Context, req ChoiceRequest) (Choice, error)
}

// ChooserFunc adapts a function to Chooser
type ChooserFunc func(ctx context.Context, req ChoiceRequest) (Choice, error)

// Choose calls f(ctx, req)
func (f ChooserFunc) Choose(ctx context.Context, req ChoiceRequest) (Choice, error) {
	return f(ctx, req)
}

// Outcome is the result of resolving one planned action
type Outcome struct {
	Applied bool
	Message string
}

// Resolver applies action cards to a game state
type Resolver struct {
	state        *game.State
	chooser      Chooser
	clock        quartz.Clock
	logger       *log.Logger
	sheriffDelay time.Duration
	messageDelay time.Duration
}

// Option configures a Resolver
type Option func(*Resolver)

// WithChooser sets who answers human choices
func WithChooser(c Chooser) Option {
	return func(r *Resolver) { r.chooser = c }
}

// WithClock sets the clock used for the sheriff and message delays
func WithClock(c quartz.Clock) Option {
	return func(r *Resolver) { r.clock = c }
}

// WithLogger sets the logger
func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) { r.logger = l.WithPrefix("resolver") }
}

// WithDelays sets the pause before the sheriff check and the pause after a
// message shown to a human
func WithDelays(sheriff, message time.Duration) Option {
	return func(r *Resolver) {
		r.sheriffDelay = sheriff
		r.messageDelay = message
	}
}

// New creates a resolver over state
func New(state *game.State, opts ...Option) *Resolver {
	r := &Resolver{
		state:  state,
		clock:  quartz.NewReal(),
		logger: log.Default().WithPrefix("resolver"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve executes one planned action and publishes its outcome. The only
// error returned is ctx's; everything else resolves as a reported no-op.
func (r *Resolver) Resolve(ctx context.Context, action game.PlannedAction) (Outcome, error) {
	p := action.Player
	if p == nil {
		return Outcome{}, nil
	}

	var (
		out Outcome
		err error
	)
	switch action.Kind {
	case deck.MoveHorizontally:
		out, err = r.moveHorizontally(ctx, p)
	case deck.MoveVertically:
		out, err = r.moveVertically(ctx, p)
	case deck.Collect:
		out, err = r.collect(ctx, p)
	case deck.Punch:
		out, err = r.punch(ctx, p)
	case deck.Fire:
		out, err = r.fire(ctx, p)
	case deck.MoveSheriff:
		out, err = r.moveSheriff(ctx, p)
	case deck.DrawAndPass:
		out = Outcome{Message: fmt.Sprintf("%s drew cards and passed", p.Name)}
	case deck.Bullet:
		out = Outcome{Message: fmt.Sprintf("%s played a bullet card, nothing happens", p.Name)}
	case deck.Unknown, deck.Hidden:
		r.logger.Warn("Unresolvable card kind", "player", p.Name, "kind", action.Kind)
		out = Outcome{Message: "unknown card"}
	default:
		r.logger.Warn("Unexpected card kind", "player", p.Name, "kind", int(action.Kind))
		out = Outcome{Message: "unknown card"}
	}
	if err != nil {
		return out, err
	}

	r.logger.Debug("Action resolved", "action", action.String(), "turn", action.Turn, "applied", out.Applied, "message", out.Message)
	r.state.Bus().Publish(game.NewActionResultEvent(p.Name, action.Kind, out.Applied, out.Message))
	if !p.Bot && out.Message != "" {
		return out, Pause(ctx, r.clock, r.messageDelay, "resolver", "message")
	}
	return out, nil
}

// ask forwards a request to the chooser. A nil error with ok=false means the
// choice could not be obtained and the action must become a no-op.
func (r *Resolver) ask(ctx context.Context, req ChoiceRequest) (Choice, bool, error) {
	if r.chooser == nil {
		r.logger.Warn("Human choice needed but no chooser wired", "player", req.Player, "kind", req.Kind, "error", ErrNoChooser)
		return Choice{}, false, nil
	}
	choice, err := r.chooser.Choose(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Choice{}, false, ctxErr
		}
		r.logger.Warn("Human choice failed", "player", req.Player, "kind", req.Kind, "error", err)
		return Choice{}, false, nil
	}
	return choice, true, nil
}

// Pause waits d on clock, returning early with ctx's error. Zero or negative
// durations return immediately without touching the clock.
func Pause(ctx context.Context, clock quartz.Clock, d time.Duration, tags ...string) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := clock.NewTimer(d, tags...)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
