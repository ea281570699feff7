package scheduler

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/lox/trainheist/internal/bot"
	"github.com/lox/trainheist/internal/deck"
	"github.com/lox/trainheist/internal/resolver"
)

var (
	// ErrNoPendingChoice is returned when input arrives while nobody is asked
	ErrNoPendingChoice = errors.New("no choice pending")
	// ErrNotYourTurn is returned when input comes from a player not in turn
	ErrNotYourTurn = errors.New("not your turn")
	// ErrInvalidChoice is returned when the answer does not fit the request
	ErrInvalidChoice = errors.New("invalid choice")
	// ErrChoiceTimeout is reported when a human did not answer in time
	ErrChoiceTimeout = errors.New("choice timed out")
	// ErrNoPresenter is reported when a human must choose but nothing can ask
	ErrNoPresenter = errors.New("no presenter wired")
)

// Expectation describes the single choice the engine is waiting for
type Expectation struct {
	Player     string
	Planning   *PlanningRequest
	Resolution *resolver.ChoiceRequest
}

type answer struct {
	decision bot.Decision
	choice   resolver.Choice
}

// pending is one suspended human choice; it is resumed at most once
type pending struct {
	expect  Expectation
	answers chan answer
}

// Expected returns the choice the engine is waiting for, if any
func (e *Engine) Expected() (Expectation, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending == nil {
		return Expectation{}, false
	}
	return e.pending.expect, true
}

func (e *Engine) suspend(expect Expectation) *pending {
	p := &pending{expect: expect, answers: make(chan answer, 1)}
	e.mu.Lock()
	e.pending = p
	e.mu.Unlock()
	return p
}

// release clears p if it is still pending. It reports false when an answer
// was already delivered.
func (e *Engine) release(p *pending) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending != p {
		return false
	}
	e.pending = nil
	return true
}

func (e *Engine) await(ctx context.Context, p *pending) (answer, error) {
	var timeout <-chan time.Time
	if e.cfg.HumanTimeout > 0 {
		t := e.clock.NewTimer(e.cfg.HumanTimeout, "scheduler", "human")
		defer t.Stop()
		timeout = t.C
	}

	select {
	case a := <-p.answers:
		return a, nil
	case <-timeout:
		if !e.release(p) {
			return <-p.answers, nil
		}
		e.logger.Warn("Human choice timed out", "player", p.expect.Player, "timeout", e.cfg.HumanTimeout)
		return answer{}, ErrChoiceTimeout
	case <-ctx.Done():
		e.release(p)
		return answer{}, ctx.Err()
	}
}

// awaitPlanning suspends until the human plants a card. ok is false when
// the card is forfeited.
func (e *Engine) awaitPlanning(ctx context.Context, req PlanningRequest) (bot.Decision, bool, error) {
	if e.presenter == nil {
		e.logger.Warn("Human must plan but no presenter is wired, forfeiting card", "player", req.Player)
		return bot.Decision{}, false, nil
	}
	p := e.suspend(Expectation{Player: req.Player, Planning: &req})
	e.presenter.RequestPlanningChoice(req)

	a, err := e.await(ctx, p)
	if errors.Is(err, ErrChoiceTimeout) {
		return bot.Decision{}, false, nil
	}
	if err != nil {
		return bot.Decision{}, false, err
	}
	return a.decision, true, nil
}

// Choose implements resolver.Chooser by suspending until the human answers
func (e *Engine) Choose(ctx context.Context, req resolver.ChoiceRequest) (resolver.Choice, error) {
	if e.presenter == nil {
		return resolver.Choice{}, ErrNoPresenter
	}
	p := e.suspend(Expectation{Player: req.Player, Resolution: &req})
	e.presenter.RequestResolutionChoice(req)

	a, err := e.await(ctx, p)
	if err != nil {
		return resolver.Choice{}, err
	}
	return a.choice, nil
}

// deliver validates input against the pending choice and resumes the engine
func (e *Engine) deliver(player string, validate func(Expectation) (answer, bool)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pending == nil {
		e.logger.Debug("Input ignored, nothing pending", "player", player)
		return ErrNoPendingChoice
	}
	if e.pending.expect.Player != player {
		e.logger.Warn("Out of turn input ignored", "player", player, "expected", e.pending.expect.Player)
		return ErrNotYourTurn
	}
	a, ok := validate(e.pending.expect)
	if !ok {
		e.logger.Warn("Invalid input ignored", "player", player)
		return ErrInvalidChoice
	}
	e.pending.answers <- a
	e.pending = nil
	return nil
}

// ChooseCard plants a card from the player's hand
func (e *Engine) ChooseCard(player string, kind deck.Kind) error {
	return e.deliver(player, func(x Expectation) (answer, bool) {
		if x.Planning == nil || !slices.Contains(x.Planning.Hand, kind) {
			return answer{}, false
		}
		return answer{decision: bot.Decision{Kind: kind}}, true
	})
}

// DrawAndPass draws supplemental cards instead of planting one
func (e *Engine) DrawAndPass(player string) error {
	return e.deliver(player, func(x Expectation) (answer, bool) {
		if x.Planning == nil {
			return answer{}, false
		}
		return answer{decision: bot.Decision{DrawAndPass: true}}, true
	})
}

// ChooseTarget picks the victim of a punch or a shot
func (e *Engine) ChooseTarget(player, target string) error {
	return e.deliver(player, func(x Expectation) (answer, bool) {
		if x.Resolution == nil || !slices.Contains(x.Resolution.Targets, target) {
			return answer{}, false
		}
		return answer{choice: resolver.Choice{Target: target}}, true
	})
}

// ChooseDirection picks left (-1) or right (+1)
func (e *Engine) ChooseDirection(player string, dir int) error {
	return e.deliver(player, func(x Expectation) (answer, bool) {
		if x.Resolution == nil || !slices.Contains(x.Resolution.Directions, dir) {
			return answer{}, false
		}
		return answer{choice: resolver.Choice{Direction: dir}}, true
	})
}

// Confirm accepts a confirmation prompt such as collect or swap
func (e *Engine) Confirm(player string) error {
	return e.confirm(player, true)
}

// Decline rejects a confirmation prompt, leaving the action a no-op
func (e *Engine) Decline(player string) error {
	return e.confirm(player, false)
}

func (e *Engine) confirm(player string, ok bool) error {
	return e.deliver(player, func(x Expectation) (answer, bool) {
		if x.Resolution == nil || !x.Resolution.Confirm {
			return answer{}, false
		}
		return answer{choice: resolver.Choice{Confirmed: ok}}, true
	})
}
