package tui

import (
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/lox/trainheist/internal/deck"
	"github.com/lox/trainheist/internal/game"
	"github.com/lox/trainheist/internal/resolver"
	"github.com/lox/trainheist/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	method string
	arg    any
}

type fakeController struct {
	calls []call
	err   error
}

func (f *fakeController) record(method string, arg any) error {
	f.calls = append(f.calls, call{method, arg})
	return f.err
}

func (f *fakeController) ChooseCard(_ string, kind deck.Kind) error {
	return f.record("card", kind)
}
func (f *fakeController) DrawAndPass(string) error { return f.record("draw", nil) }
func (f *fakeController) ChooseTarget(_, target string) error {
	return f.record("target", target)
}
func (f *fakeController) ChooseDirection(_ string, dir int) error {
	return f.record("direction", dir)
}
func (f *fakeController) Confirm(string) error { return f.record("confirm", true) }
func (f *fakeController) Decline(string) error { return f.record("confirm", false) }

func newTestModel(t *testing.T) (*TUIModel, *fakeController, *Bridge) {
	t.Helper()
	ctrl := &fakeController{}
	m := NewTUIModelWithOptions(log.New(io.Discard), ctrl, "Alice", true)
	bridge := NewBridgeFunc(func(msg tea.Msg) { m.Update(msg) })
	return m, ctrl, bridge
}

func TestTUITestMode(t *testing.T) {
	t.Run("test mode captures log entries", func(t *testing.T) {
		m, _, _ := newTestModel(t)
		assert.True(t, m.IsTestMode())
		assert.Empty(t, m.GetCapturedLog())

		m.AddLogEntry("Alice climbs to the roof")
		require.Len(t, m.GetCapturedLog(), 1)
	})

	t.Run("production mode does not capture logs", func(t *testing.T) {
		m := NewTUIModel(log.New(io.Discard), &fakeController{}, "Alice")
		assert.False(t, m.IsTestMode())
		m.AddLogEntry("entry")
		assert.Nil(t, m.GetCapturedLog())
	})
}

func TestPlanningInput(t *testing.T) {
	t.Run("card by number", func(t *testing.T) {
		m, ctrl, bridge := newTestModel(t)
		bridge.RequestPlanningChoice(scheduler.PlanningRequest{
			Player: "Alice", Hand: []deck.Kind{deck.Punch, deck.Fire}, CardsLeft: 1,
		})

		m.processAction("2")
		require.Len(t, ctrl.calls, 1)
		assert.Equal(t, call{"card", deck.Fire}, ctrl.calls[0])
		assert.Nil(t, m.planning)
	})

	t.Run("card by name", func(t *testing.T) {
		m, ctrl, bridge := newTestModel(t)
		bridge.RequestPlanningChoice(scheduler.PlanningRequest{
			Player: "Alice", Hand: []deck.Kind{deck.Punch, deck.MoveSheriff},
		})

		m.processAction("play moveSheriff")
		require.Len(t, ctrl.calls, 1)
		assert.Equal(t, call{"card", deck.MoveSheriff}, ctrl.calls[0])
	})

	t.Run("draw and pass", func(t *testing.T) {
		m, ctrl, bridge := newTestModel(t)
		bridge.RequestPlanningChoice(scheduler.PlanningRequest{Player: "Alice", Hand: []deck.Kind{deck.Punch}})

		m.processAction("draw")
		require.Len(t, ctrl.calls, 1)
		assert.Equal(t, "draw", ctrl.calls[0].method)
	})

	t.Run("out of range keeps the prompt", func(t *testing.T) {
		m, ctrl, bridge := newTestModel(t)
		bridge.RequestPlanningChoice(scheduler.PlanningRequest{Player: "Alice", Hand: []deck.Kind{deck.Punch}})

		m.processAction("5")
		assert.Empty(t, ctrl.calls)
		assert.NotNil(t, m.planning)
	})

	t.Run("engine moved on", func(t *testing.T) {
		m, ctrl, bridge := newTestModel(t)
		ctrl.err = scheduler.ErrNoPendingChoice
		bridge.RequestPlanningChoice(scheduler.PlanningRequest{Player: "Alice", Hand: []deck.Kind{deck.Punch}})

		m.processAction("1")
		assert.Nil(t, m.planning)
		lines := m.GetCapturedLog()
		assert.Contains(t, lines[len(lines)-1], "Too late")
	})

	t.Run("not your turn", func(t *testing.T) {
		m, ctrl, _ := newTestModel(t)
		m.processAction("1")
		assert.Empty(t, ctrl.calls)
		assert.Contains(t, m.GetCapturedLog()[0], "Not your turn")
	})
}

func TestResolutionInput(t *testing.T) {
	t.Run("confirm", func(t *testing.T) {
		m, ctrl, bridge := newTestModel(t)
		bridge.RequestResolutionChoice(resolver.ChoiceRequest{Player: "Alice", Kind: deck.Collect, Confirm: true})

		m.processAction("n")
		require.Len(t, ctrl.calls, 1)
		assert.Equal(t, call{"confirm", false}, ctrl.calls[0])
		assert.Nil(t, m.resolution)
	})

	t.Run("direction", func(t *testing.T) {
		m, ctrl, bridge := newTestModel(t)
		bridge.RequestResolutionChoice(resolver.ChoiceRequest{Player: "Alice", Kind: deck.MoveHorizontally, Directions: []int{-1, 1}})

		m.processAction("left")
		require.Len(t, ctrl.calls, 1)
		assert.Equal(t, call{"direction", -1}, ctrl.calls[0])
	})

	t.Run("target by name is case insensitive", func(t *testing.T) {
		m, ctrl, bridge := newTestModel(t)
		bridge.RequestResolutionChoice(resolver.ChoiceRequest{Player: "Alice", Kind: deck.Punch, Targets: []string{"Bob", "Carol"}})

		m.processAction("carol")
		require.Len(t, ctrl.calls, 1)
		assert.Equal(t, call{"target", "Carol"}, ctrl.calls[0])
	})

	t.Run("unknown target", func(t *testing.T) {
		m, ctrl, bridge := newTestModel(t)
		bridge.RequestResolutionChoice(resolver.ChoiceRequest{Player: "Alice", Kind: deck.Fire, Targets: []string{"Bob"}})

		m.processAction("dave")
		assert.Empty(t, ctrl.calls)
		assert.NotNil(t, m.resolution)
	})
}

func TestEventsUpdateDisplay(t *testing.T) {
	m, _, bridge := newTestModel(t)

	snap := game.Snapshot{
		Players: []game.PlayerView{
			{Name: "Alice", Position: game.Position{Car: 1, Spot: 1}, GoldBars: 1, MaxBullets: 6},
			{Name: "Bob", Position: game.Position{Car: 2, Spot: 1, OnRoof: true}, MaxBullets: 6},
		},
		Wagons:     []game.Wagon{{Car: 1, Inside: 2}, {Car: 2, Roof: 1}},
		SheriffCar: 2,
	}
	bridge.OnEvent(game.NewStateChangedEvent(game.ChangePosition, "Bob", snap))
	assert.Equal(t, 2, m.Snapshot().SheriffCar)
	assert.Empty(t, m.GetCapturedLog())

	card := game.GameCard{Name: "tunnel", Slots: []game.TurnType{game.Default, game.Tunnel}}
	bridge.OnEvent(game.NewGameCardStartedEvent("g1", 0, 3, card))
	bridge.OnEvent(game.NewCardRevealedEvent(deck.Hidden, "Bob", game.PhasePlanning, game.Tunnel))
	bridge.OnEvent(game.NewActionResultEvent("Bob", deck.Collect, false, "no gold bars here"))

	captured := m.GetCapturedLog()
	require.Len(t, captured, 4)
	assert.Contains(t, captured[1], "TUNNEL (1/3)")
	assert.Contains(t, captured[2], "face down")
	assert.Contains(t, captured[3], "no gold bars here")

	sidebar := m.renderSidebarPane()
	assert.Contains(t, sidebar, "Card 1: 1-Default  2-Tunnel")
	assert.Contains(t, sidebar, "Scoreboard")
	assert.Contains(t, sidebar, "Bob")
}

func TestGameDone(t *testing.T) {
	m, ctrl, bridge := newTestModel(t)
	bridge.OnEvent(game.NewGameOverEvent("g1", []game.Standing{
		{Name: "Carol", Credits: 500, GoldBars: 2, Bot: true},
		{Name: "Alice", Credits: 250, GoldBars: 1},
	}))
	bridge.Done(nil)

	captured := m.GetCapturedLog()
	require.NotEmpty(t, captured)
	assert.Contains(t, captured[1], "1. Carol")
	assert.True(t, m.finished)

	m.processAction("1")
	assert.Empty(t, ctrl.calls)

	cmd := m.processAction("quit")
	assert.NotNil(t, cmd)
	assert.True(t, m.quitting)
}

func TestFormatReveal(t *testing.T) {
	line := FormatEvent(game.NewCardRevealedEvent(deck.Fire, "Bob", game.PhasePlay, game.Default))
	assert.Equal(t, "Bob plays Fire", line)

	line = FormatEvent(game.NewCardRevealedEvent(deck.Punch, "Bob", game.PhasePlanning, game.Reverse))
	assert.Equal(t, "Bob plants Punch [Reverse]", line)
}
