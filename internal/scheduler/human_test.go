package scheduler

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/trainheist/internal/deck"
	"github.com/lox/trainheist/internal/game"
	"github.com/lox/trainheist/internal/resolver"
)

type chanPresenter struct {
	planning   chan PlanningRequest
	resolution chan resolver.ChoiceRequest
}

func newChanPresenter() *chanPresenter {
	return &chanPresenter{
		planning:   make(chan PlanningRequest, 16),
		resolution: make(chan resolver.ChoiceRequest, 16),
	}
}

func (p *chanPresenter) RequestPlanningChoice(req PlanningRequest)          { p.planning <- req }
func (p *chanPresenter) RequestResolutionChoice(req resolver.ChoiceRequest) { p.resolution <- req }

func startEngine(t *testing.T, e *Engine) (context.Context, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()
	return ctx, done
}

func TestInputWithoutPendingChoice(t *testing.T) {
	tb := newTable(t)
	tb.seat(t, "Alice", false, game.Position{Car: 1, Spot: 1})
	e := New(tb.state, quietConfig(game.GameCard{Slots: []game.TurnType{game.Default}}), WithLogger(log.New(io.Discard)))

	assert.ErrorIs(t, e.ChooseCard("Alice", deck.Collect), ErrNoPendingChoice)
	assert.ErrorIs(t, e.Confirm("Alice"), ErrNoPendingChoice)
	_, ok := e.Expected()
	assert.False(t, ok)
}

func TestHumanPlanningAndResolution(t *testing.T) {
	tb := newTable(t)
	alice := tb.seat(t, "Alice", false, game.Position{Car: 1, Spot: 1}, deck.MoveVertically, deck.Collect)
	bob := tb.seat(t, "Bob", false, game.Position{Car: 1, Spot: 2}, deck.MoveVertically)

	pres := newChanPresenter()
	cfg := quietConfig(game.GameCard{Slots: []game.TurnType{game.Default}})
	e := New(tb.state, cfg, WithLogger(log.New(io.Discard)), WithPresenter(pres))
	_, done := startEngine(t, e)

	req := <-pres.planning
	assert.Equal(t, "Alice", req.Player)
	assert.Equal(t, game.Default, req.Turn)
	assert.ElementsMatch(t, []deck.Kind{deck.MoveVertically, deck.Collect}, req.Hand)

	expect, ok := e.Expected()
	require.True(t, ok)
	assert.Equal(t, "Alice", expect.Player)

	assert.ErrorIs(t, e.ChooseCard("Bob", deck.MoveVertically), ErrNotYourTurn)
	assert.ErrorIs(t, e.ChooseCard("Alice", deck.Fire), ErrInvalidChoice)
	assert.ErrorIs(t, e.ChooseTarget("Alice", "Bob"), ErrInvalidChoice)
	require.NoError(t, e.ChooseCard("Alice", deck.MoveVertically))

	req = <-pres.planning
	assert.Equal(t, "Bob", req.Player)
	require.NoError(t, e.ChooseCard("Bob", deck.MoveVertically))

	choice := <-pres.resolution
	assert.Equal(t, "Alice", choice.Player)
	assert.True(t, choice.Confirm)
	assert.ErrorIs(t, e.Confirm("Bob"), ErrNotYourTurn)
	assert.ErrorIs(t, e.ChooseDirection("Alice", 1), ErrInvalidChoice)
	require.NoError(t, e.Confirm("Alice"))

	choice = <-pres.resolution
	assert.Equal(t, "Bob", choice.Player)
	require.NoError(t, e.Decline("Bob"))

	require.NoError(t, <-done)
	assert.True(t, alice.Position.OnRoof)
	assert.False(t, bob.Position.OnRoof)
	assert.Equal(t, []string{"Alice:moveVertically", "Bob:moveVertically"}, actionStrings(e.PlannedActions()))
	assert.Equal(t, []deck.Kind{deck.Collect}, alice.Deck.Hand())
}

func TestHumanDrawAndPass(t *testing.T) {
	tb := newTable(t)
	alice := tb.seat(t, "Alice", false, game.Position{Car: 1, Spot: 1})

	pres := newChanPresenter()
	cfg := quietConfig(game.GameCard{Slots: []game.TurnType{game.BackToBack}})
	e := New(tb.state, cfg, WithLogger(log.New(io.Discard)), WithPresenter(pres))
	_, done := startEngine(t, e)

	req := <-pres.planning
	assert.Equal(t, 2, req.CardsLeft)
	require.NoError(t, e.DrawAndPass("Alice"))

	req = <-pres.planning
	assert.Equal(t, 1, req.CardsLeft)
	assert.Len(t, req.Hand, 8)
	require.NoError(t, e.DrawAndPass("Alice"))

	require.NoError(t, <-done)
	assert.Equal(t, 10, alice.Deck.HandSize())
	assert.Equal(t, []string{"Alice:drawAndPass", "Alice:drawAndPass"}, actionStrings(e.PlannedActions()))
}

func TestHumanDirectionAndTarget(t *testing.T) {
	tb := newTable(t)
	alice := tb.seat(t, "Alice", false, game.Position{Car: 2, Spot: 1}, deck.MoveHorizontally, deck.Punch)
	bob := tb.seat(t, "Bob", true, game.Position{Car: 1, Spot: 2}, deck.MoveVertically)
	bob.GoldBars, bob.Credits = 1, 300
	tb.state.SetWagonGold(1, 0, 0)

	pres := newChanPresenter()
	cfg := quietConfig(game.GameCard{Slots: []game.TurnType{game.BackToBack}})
	e := New(tb.state, cfg, WithLogger(log.New(io.Discard)), WithPresenter(pres))
	_, done := startEngine(t, e)

	<-pres.planning
	require.NoError(t, e.ChooseCard("Alice", deck.MoveHorizontally))
	<-pres.planning
	require.NoError(t, e.ChooseCard("Alice", deck.Punch))

	move := <-pres.resolution
	assert.Equal(t, []int{-1, 1}, move.Directions)
	require.NoError(t, e.ChooseDirection("Alice", -1))

	punch := <-pres.resolution
	assert.Equal(t, []string{"Bob"}, punch.Targets)
	assert.ErrorIs(t, e.ChooseTarget("Alice", "Carol"), ErrInvalidChoice)
	require.NoError(t, e.ChooseTarget("Alice", "Bob"))

	require.NoError(t, <-done)
	assert.Equal(t, 1, alice.Position.Car)
	assert.Equal(t, 0, bob.GoldBars)
	assert.Equal(t, 50, bob.Credits)
	assert.Equal(t, 1, tb.state.Wagon(1).Inside)
}

func TestHumanWithoutPresenterNeverBlocks(t *testing.T) {
	tb := newTable(t)
	alice := tb.seat(t, "Alice", false, game.Position{Car: 1, Spot: 1})

	cfg := quietConfig(game.GameCard{Slots: []game.TurnType{game.Default, game.Default}})
	e := New(tb.state, cfg, WithLogger(log.New(io.Discard)))
	runEngine(t, e)

	assert.Empty(t, e.PlannedActions())
	assert.Equal(t, 6, alice.Deck.HandSize())
}

func TestHumanTimeoutForfeitsCard(t *testing.T) {
	tb := newTable(t)
	alice := tb.seat(t, "Alice", false, game.Position{Car: 1, Spot: 1})
	tb.seat(t, "Bot", true, game.Position{Car: 1, Spot: 2}, deck.MoveVertically)

	mClock := quartz.NewMock(t)
	pres := newChanPresenter()
	cfg := quietConfig(game.GameCard{Slots: []game.TurnType{game.Default}})
	cfg.HumanTimeout = 10 * time.Second
	e := New(tb.state, cfg, WithLogger(log.New(io.Discard)), WithPresenter(pres), WithClock(mClock))
	ctx, done := startEngine(t, e)

	<-pres.planning
	require.Eventually(t, func() bool {
		_, ok := mClock.Peek()
		return ok
	}, time.Second, time.Millisecond)
	mClock.Advance(10 * time.Second).MustWait(ctx)

	require.NoError(t, <-done)
	assert.Equal(t, []string{"Bot:moveVertically"}, actionStrings(e.PlannedActions()))
	assert.Equal(t, 6, alice.Deck.HandSize())
	assert.ErrorIs(t, e.ChooseCard("Alice", deck.Collect), ErrNoPendingChoice)
}
