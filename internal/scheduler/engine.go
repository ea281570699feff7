// Package scheduler drives a game through its GameCards, slots and players.
//
// Each GameCard is planned slot by slot, then its planned actions are
// resolved in order. The engine runs on a single goroutine; human players
// answer through the input methods (ChooseCard, ChooseTarget, ...) which may
// be called from any goroutine.
package scheduler

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/trainheist/internal/bot"
	"github.com/lox/trainheist/internal/deck"
	"github.com/lox/trainheist/internal/game"
	"github.com/lox/trainheist/internal/gameid"
	"github.com/lox/trainheist/internal/resolver"
)

// Presenter is told when a human has to choose. Calls are made from the
// engine goroutine and must not block; the answer comes back through the
// engine's input methods.
type Presenter interface {
	RequestPlanningChoice(req PlanningRequest)
	RequestResolutionChoice(req resolver.ChoiceRequest)
}

// PlanningRequest asks a human to plant a card or draw and pass
type PlanningRequest struct {
	Player    string
	Turn      game.TurnType
	Slot      int
	CardsLeft int
	Hand      []deck.Kind
}

// Engine is the turn scheduler
type Engine struct {
	state     *game.State
	cfg       Config
	clock     quartz.Clock
	logger    *log.Logger
	presenter Presenter
	resolver  *resolver.Resolver
	gameID    string

	defaultPolicy bot.Policy
	policies      map[string]bot.Policy

	mu       sync.Mutex
	phase    Phase
	planned  []game.PlannedAction
	cursor   int
	expected *Expectation
	pending  *pending
}

// Option configures an Engine
type Option func(*Engine)

// WithClock sets the clock driving every delay and the human timeout
func WithClock(c quartz.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithLogger sets the logger
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithPresenter wires the collaborator that prompts humans
func WithPresenter(p Presenter) Option {
	return func(e *Engine) { e.presenter = p }
}

// WithDefaultPolicy sets the planning policy of bots without their own
func WithDefaultPolicy(p bot.Policy) Option {
	return func(e *Engine) { e.defaultPolicy = p }
}

// WithPolicy sets the planning policy of one bot
func WithPolicy(player string, p bot.Policy) Option {
	return func(e *Engine) { e.policies[player] = p }
}

// WithGameID overrides the generated game id
func WithGameID(id string) Option {
	return func(e *Engine) { e.gameID = id }
}

// New creates an engine for a populated state
func New(state *game.State, cfg Config, opts ...Option) *Engine {
	e := &Engine{
		state:         state,
		cfg:           cfg,
		clock:         quartz.NewReal(),
		logger:        log.Default(),
		defaultPolicy: bot.FirstCard{},
		policies:      make(map[string]bot.Policy),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.gameID == "" {
		e.gameID = gameid.Generate()
	}
	e.logger = e.logger.WithPrefix("scheduler").With("game", e.gameID)
	e.resolver = resolver.New(state,
		resolver.WithChooser(e),
		resolver.WithClock(e.clock),
		resolver.WithLogger(e.logger),
		resolver.WithDelays(cfg.SheriffDelay, cfg.MessageDelay),
	)
	return e
}

// GameID returns the id stamped on lifecycle events
func (e *Engine) GameID() string { return e.gameID }

// Phase returns the current state machine phase
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// PlannedActions returns the ordered actions of the current GameCard
func (e *Engine) PlannedActions() []game.PlannedAction {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.planned)
}

// ActionIndex returns the index of the action being resolved
func (e *Engine) ActionIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor
}

// Standings returns the standings sorted by credits. Call it from the engine
// goroutine or after Run returns.
func (e *Engine) Standings() []game.Standing {
	return e.state.Standings()
}

// Run plays the whole game. Configuration errors are returned before any
// planning starts; afterwards only cancellation of ctx stops the game.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.cfg.Validate(); err != nil {
		e.logger.Error("Refusing to start game", "error", err)
		return fmt.Errorf("invalid scheduler config: %w", err)
	}
	players := e.state.Players()
	if len(players) == 0 {
		return game.ErrNoPlayers
	}
	for _, p := range players {
		if p.Deck == nil {
			e.logger.Error("Refusing to start game", "player", p.Name, "error", game.ErrNoDeck)
			return fmt.Errorf("%w: %s", game.ErrNoDeck, p.Name)
		}
	}
	reversed := slices.Clone(players)
	slices.Reverse(reversed)

	e.setPhase(PhaseSelectingGameCard)
	cards := e.selectGameCards()
	e.logger.Info("Game started", "players", len(players), "gameCards", len(cards))

	for i, gc := range cards {
		e.setPhase(PhaseSelectingGameCard)
		e.dealHands(players)
		e.state.Bus().Publish(game.NewGameCardStartedEvent(e.gameID, i, len(cards), gc))
		e.logger.Info("GameCard started", "index", i+1, "card", gc.Name, "slots", len(gc.Slots))

		if len(gc.Slots) == 0 {
			e.logger.Debug("Skipping GameCard without slots", "index", i+1)
			continue
		}

		e.setPhase(PhasePlanning)
		if err := e.planGameCard(ctx, gc, players, reversed); err != nil {
			return err
		}

		actions := e.PlannedActions()
		if len(actions) == 0 {
			e.logger.Debug("Nothing planned, skipping resolution", "index", i+1)
			continue
		}

		e.setPhase(PhaseResolving)
		if err := e.resolveActions(ctx, actions); err != nil {
			return err
		}
	}

	e.setPhase(PhaseGameOver)
	standings := e.Standings()
	e.state.Bus().Publish(game.NewGameOverEvent(e.gameID, standings))
	e.logger.Info("Game over", "winner", standings[0].Name, "credits", standings[0].Credits)
	return nil
}

// selectGameCards picks the GameCards to play without replacement
func (e *Engine) selectGameCards() []game.GameCard {
	pool := slices.Clone(e.cfg.GameCards)
	n := e.cfg.GameCardsToPlay
	if n > len(pool) {
		e.logger.Warn("Fewer GameCards configured than requested", "requested", n, "available", len(pool))
		n = len(pool)
	}
	rng := e.state.Rand()
	picked := make([]game.GameCard, 0, n)
	for range n {
		idx := rng.IntN(len(pool))
		picked = append(picked, pool[idx])
		pool = slices.Delete(pool, idx, idx+1)
	}
	return picked
}

func (e *Engine) dealHands(players []*game.Player) {
	for _, p := range players {
		p.Deck.DealHand(e.cfg.HandSize)
		e.state.NotifyHandChanged(p.Name)
	}
}

func (e *Engine) planGameCard(ctx context.Context, gc game.GameCard, players, reversed []*game.Player) error {
	e.mu.Lock()
	e.planned = nil
	e.mu.Unlock()

	for slot, turn := range gc.Slots {
		order := players
		if turn.Reversed() {
			order = reversed
		}
		for _, p := range order {
			for n := range turn.CardsRequired() {
				action, ok, err := e.planOne(ctx, p, turn, slot, turn.CardsRequired()-n)
				if err != nil {
					return err
				}
				if !ok {
					continue
				}
				e.mu.Lock()
				e.planned = append(e.planned, action)
				e.mu.Unlock()

				shown := action.Kind
				if turn.Hidden() {
					shown = deck.Hidden
				}
				e.state.NotifyHandChanged(p.Name)
				e.state.Bus().Publish(game.NewCardRevealedEvent(shown, p.Name, game.PhasePlanning, turn))
			}
		}
	}
	return nil
}

// planOne asks one actor for one card. ok is false when the actor
// contributes nothing: an empty bot hand or a forfeited human choice.
func (e *Engine) planOne(ctx context.Context, p *game.Player, turn game.TurnType, slot, cardsLeft int) (game.PlannedAction, bool, error) {
	action := game.PlannedAction{Player: p, Turn: turn, Slot: slot}

	var decision bot.Decision
	if p.Bot {
		if err := resolver.Pause(ctx, e.clock, e.cfg.BotDelay, "scheduler", "bot"); err != nil {
			return action, false, err
		}
		hand := p.Deck.Hand()
		if len(hand) == 0 {
			e.logger.Warn("Bot has no cards to plan", "player", p.Name, "slot", slot+1)
			return action, false, nil
		}
		decision = e.policyFor(p.Name).Plan(bot.PlanningView{
			Player:   p.Name,
			Turn:     turn,
			Slot:     slot,
			Hand:     hand,
			Snapshot: e.state.Snapshot(),
		})
		if !decision.DrawAndPass && !p.Deck.Holds(decision.Kind) {
			e.logger.Warn("Policy chose a card not in hand, playing first card", "player", p.Name, "kind", decision.Kind)
			decision = bot.FirstCard{}.Plan(bot.PlanningView{Hand: hand})
		}
	} else {
		var (
			ok  bool
			err error
		)
		decision, ok, err = e.awaitPlanning(ctx, PlanningRequest{
			Player:    p.Name,
			Turn:      turn,
			Slot:      slot,
			CardsLeft: cardsLeft,
			Hand:      p.Deck.Hand(),
		})
		if err != nil || !ok {
			return action, false, err
		}
	}

	if decision.DrawAndPass {
		drawn := p.Deck.DrawSupplemental(e.cfg.DrawCount)
		e.logger.Debug("Player drew and passed", "player", p.Name, "drawn", len(drawn))
		action.Kind = deck.DrawAndPass
		return action, true, nil
	}
	if err := p.Deck.RemoveFromHand(decision.Kind); err != nil {
		e.logger.Warn("Played card vanished from hand", "player", p.Name, "kind", decision.Kind, "error", err)
		return action, false, nil
	}
	action.Kind = decision.Kind
	e.logger.Debug("Card planned", "action", action.String(), "turn", turn, "slot", slot+1)
	return action, true, nil
}

func (e *Engine) policyFor(player string) bot.Policy {
	if p, ok := e.policies[player]; ok {
		return p
	}
	return e.defaultPolicy
}

func (e *Engine) resolveActions(ctx context.Context, actions []game.PlannedAction) error {
	for i, action := range actions {
		e.mu.Lock()
		e.cursor = i
		e.mu.Unlock()

		e.state.Bus().Publish(game.NewCardRevealedEvent(action.Kind, action.Owner(), game.PhasePlay, action.Turn))
		if _, err := e.resolver.Resolve(ctx, action); err != nil {
			return err
		}
		if err := resolver.Pause(ctx, e.clock, e.cfg.ActionDelay, "scheduler", "action"); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) setPhase(p Phase) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != p {
		e.logger.Debug("Phase changed", "from", e.phase, "to", p)
	}
	e.phase = p
}
