package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lox/trainheist/internal/game"
	"github.com/lox/trainheist/internal/resolver"
	"github.com/lox/trainheist/internal/scheduler"
)

// Bridge forwards engine prompts and game events into a running program.
// It implements scheduler.Presenter and game.EventSubscriber. Sends never
// wait on the engine, so the engine goroutine is only held until the
// program's event loop picks the message up.
type Bridge struct {
	send func(tea.Msg)
}

var (
	_ scheduler.Presenter  = (*Bridge)(nil)
	_ game.EventSubscriber = (*Bridge)(nil)
)

// NewBridge creates a bridge delivering to program
func NewBridge(program *tea.Program) *Bridge {
	return &Bridge{send: program.Send}
}

// NewBridgeFunc creates a bridge delivering to an arbitrary sink
func NewBridgeFunc(send func(tea.Msg)) *Bridge {
	return &Bridge{send: send}
}

// OnEvent implements game.EventSubscriber
func (b *Bridge) OnEvent(event game.GameEvent) {
	b.send(eventMsg{event: event})
}

// RequestPlanningChoice implements scheduler.Presenter
func (b *Bridge) RequestPlanningChoice(req scheduler.PlanningRequest) {
	b.send(planningMsg{req: req})
}

// RequestResolutionChoice implements scheduler.Presenter
func (b *Bridge) RequestResolutionChoice(req resolver.ChoiceRequest) {
	b.send(resolutionMsg{req: req})
}

// Done tells the program the engine has stopped
func (b *Bridge) Done(err error) {
	b.send(GameDoneMsg{Err: err})
}
