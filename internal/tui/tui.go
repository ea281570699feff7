package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/trainheist/internal/deck"
	"github.com/lox/trainheist/internal/game"
	"github.com/lox/trainheist/internal/resolver"
	"github.com/lox/trainheist/internal/scheduler"
)

// Controller receives the human player's answers. *scheduler.Engine
// implements it.
type Controller interface {
	ChooseCard(player string, kind deck.Kind) error
	DrawAndPass(player string) error
	ChooseTarget(player, target string) error
	ChooseDirection(player string, dir int) error
	Confirm(player string) error
	Decline(player string) error
}

// TUIModel represents the Bubble Tea model for a local game
type TUIModel struct {
	logger     *log.Logger
	controller Controller
	human      string

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model

	// State
	gameLog     []string
	quitting    bool
	finished    bool
	focusedPane int // 0 = log, 1 = input

	// Display state, driven entirely by engine events
	snapshot   game.Snapshot
	cardTitle  string
	planning   *scheduler.PlanningRequest
	resolution *resolver.ChoiceRequest

	// Dimensions
	width  int
	height int

	// Test mode
	testMode    bool
	capturedLog []string
}

type eventMsg struct{ event game.GameEvent }

type planningMsg struct{ req scheduler.PlanningRequest }

type resolutionMsg struct{ req resolver.ChoiceRequest }

// GameDoneMsg is sent once the engine's Run returns
type GameDoneMsg struct {
	Err error
}

// NewTUIModel creates a new TUI model for the named human player
func NewTUIModel(logger *log.Logger, controller Controller, human string) *TUIModel {
	return NewTUIModelWithOptions(logger, controller, human, false)
}

// NewTUIModelWithOptions creates a new TUI model with test mode option
func NewTUIModelWithOptions(logger *log.Logger, controller Controller, human string, testMode bool) *TUIModel {
	// Sized properly when WindowSizeMsg arrives
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "Waiting for the train..."
	ti.Focus()
	ti.CharLimit = 60
	ti.Width = 60
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	return &TUIModel{
		logger:      logger.WithPrefix("tui"),
		controller:  controller,
		human:       human,
		logViewport: vp,
		actionInput: ti,
		focusedPane: 1,
		testMode:    testMode,
	}
}

// Init initializes the TUI model
func (m *TUIModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages in the TUI
func (m *TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case eventMsg:
		m.handleEvent(msg.event)
		return m, nil

	case planningMsg:
		req := msg.req
		m.planning, m.resolution = &req, nil
		m.AddLogEntry(ActionsStyle.Render(fmt.Sprintf("Your turn: slot %d (%s), %d card(s) to plant", req.Slot+1, req.Turn, req.CardsLeft)))
		return m, nil

	case resolutionMsg:
		req := msg.req
		m.resolution, m.planning = &req, nil
		m.AddLogEntry(ActionsStyle.Render(fmt.Sprintf("%s: %s", req.Kind.Label(), m.describeChoice(req))))
		return m, nil

	case GameDoneMsg:
		m.finished = true
		m.planning, m.resolution = nil, nil
		if msg.Err != nil {
			m.AddLogEntry(ErrorStyle.Render("Game stopped: " + msg.Err.Error()))
		}
		m.AddLogEntry(InfoStyle.Render("Type 'quit' to leave"))
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "tab":
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				input := m.actionInput.Value()
				m.actionInput.SetValue("")
				if cmd := m.processAction(input); cmd != nil {
					return m, cmd
				}
			}
		case "up", "k":
			if m.focusedPane == 0 {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == 0 {
				m.logViewport.ScrollDown(1)
			}
		case "pgup":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageUp()
			}
		case "pgdown":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageDown()
			}
		case "home":
			if m.focusedPane == 0 {
				m.logViewport.GotoTop()
			}
		case "end":
			if m.focusedPane == 0 {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == 1 {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *TUIModel) handleEvent(event game.GameEvent) {
	switch e := event.(type) {
	case game.StateChangedEvent:
		m.snapshot = e.Snapshot
		return
	case game.GameCardStartedEvent:
		m.cardTitle = e.Description
		m.AddLogEntry("")
		m.AddLogEntry(HeaderStyle.Render(FormatEvent(e)))
		return
	case game.ActionResultEvent:
		line := FormatEvent(e)
		if line == "" {
			return
		}
		if e.Applied {
			m.AddLogEntry(SuccessStyle.Render(line))
		} else {
			m.AddLogEntry(InfoStyle.Render(line))
		}
		return
	case game.CardRevealedEvent:
		if e.Kind == deck.Hidden {
			m.AddLogEntry(HiddenCardStyle.Render(FormatEvent(e)))
			return
		}
	case game.GameOverEvent:
		m.AddLogEntry("")
		m.AddLogEntry(GoldStyle.Render(FormatEvent(e)))
		return
	}
	if line := FormatEvent(event); line != "" {
		m.AddLogEntry(line)
	}
}

// processAction interprets one line typed by the human and forwards it to
// the controller
func (m *TUIModel) processAction(input string) tea.Cmd {
	input = strings.ToLower(strings.TrimSpace(input))
	switch input {
	case "quit", "exit", "/quit":
		m.quitting = true
		return tea.Sequence(tea.ClearScreen, tea.Quit)
	}

	var err error
	switch {
	case m.finished:
		return nil
	case m.planning != nil:
		err = m.answerPlanning(input)
	case m.resolution != nil:
		err = m.answerResolution(input)
	default:
		if input != "" {
			m.AddLogEntry(WarningStyle.Render("Not your turn yet"))
		}
		return nil
	}

	switch {
	case err == nil:
	case errors.Is(err, scheduler.ErrNoPendingChoice):
		// The engine moved on, e.g. the choice timed out
		m.planning, m.resolution = nil, nil
		m.AddLogEntry(WarningStyle.Render("Too late, the train moved on"))
	default:
		m.AddLogEntry(ErrorStyle.Render(err.Error()))
	}
	return nil
}

func (m *TUIModel) answerPlanning(input string) error {
	req := m.planning
	arg := strings.TrimSpace(strings.TrimPrefix(input, "play"))
	switch arg {
	case "":
		return fmt.Errorf("pick a card 1-%d or 'draw'", len(req.Hand))
	case "d", "draw", "pass":
		if err := m.controller.DrawAndPass(m.human); err != nil {
			return err
		}
		m.planning = nil
		m.AddLogEntry(InfoStyle.Render("You draw and pass"))
		return nil
	}

	kind, err := m.pickCard(req.Hand, arg)
	if err != nil {
		return err
	}
	if err := m.controller.ChooseCard(m.human, kind); err != nil {
		return fmt.Errorf("cannot play %s: %w", kind.Label(), err)
	}
	m.planning = nil
	return nil
}

func (m *TUIModel) pickCard(hand []deck.Kind, arg string) (deck.Kind, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(hand) {
			return deck.Unknown, fmt.Errorf("no card %d in hand", n)
		}
		return hand[n-1], nil
	}
	kind, err := deck.ParseKind(arg)
	if err != nil {
		return deck.Unknown, err
	}
	return kind, nil
}

func (m *TUIModel) answerResolution(input string) error {
	req := m.resolution
	var err error
	switch {
	case req.Confirm:
		switch input {
		case "", "y", "yes":
			err = m.controller.Confirm(m.human)
		case "n", "no":
			err = m.controller.Decline(m.human)
		default:
			return fmt.Errorf("answer yes or no")
		}
	case len(req.Directions) > 0:
		dir, ok := parseDirection(input)
		if !ok {
			return fmt.Errorf("answer left or right")
		}
		err = m.controller.ChooseDirection(m.human, dir)
	case len(req.Targets) > 0:
		target, ok := pickTarget(req.Targets, input)
		if !ok {
			return fmt.Errorf("no target %q", input)
		}
		err = m.controller.ChooseTarget(m.human, target)
	default:
		return nil
	}
	if err != nil {
		return err
	}
	m.resolution = nil
	return nil
}

func pickTarget(targets []string, input string) (string, bool) {
	if n, err := strconv.Atoi(input); err == nil {
		if n < 1 || n > len(targets) {
			return "", false
		}
		return targets[n-1], true
	}
	for _, t := range targets {
		if strings.EqualFold(t, input) {
			return t, true
		}
	}
	return "", false
}

func (m *TUIModel) describeChoice(req resolver.ChoiceRequest) string {
	switch {
	case req.Confirm:
		if req.Message != "" {
			return req.Message + " [y/n]"
		}
		return "confirm? [y/n]"
	case len(req.Directions) > 0:
		dirs := make([]string, len(req.Directions))
		for i, d := range req.Directions {
			dirs[i] = formatDirection(d)
		}
		return "move " + strings.Join(dirs, " or ")
	default:
		return "pick a target: " + strings.Join(req.Targets, ", ")
	}
}

// View renders the TUI
func (m *TUIModel) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(max(m.width-2, 1)).
		Height(max(actionHeight, 1))
	actionPane := actionStyle.Render(actionContent)

	sidebarContent := m.renderSidebarPane()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 28)
	paneHeight := max(m.height-actionHeight-4, 1)

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	m.logViewport.SetContent(m.renderLogPane())
	m.logViewport.Width = max(m.width-sidebarWidth-4, 1)
	m.logViewport.Height = paneHeight
	m.logViewport.GotoBottom()

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(m.logViewport.Width).
		Height(paneHeight)
	if m.focusedPane == 0 {
		logStyle = logStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	logPane := logStyle.Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

func (m *TUIModel) renderLogPane() string {
	return strings.Join(m.gameLog, "\n")
}

// renderSidebarPane shows the train, the sheriff and the scoreboard
func (m *TUIModel) renderSidebarPane() string {
	var content strings.Builder

	if m.cardTitle != "" {
		content.WriteString(WarningStyle.Render(m.cardTitle))
		content.WriteString("\n\n")
	}

	for _, w := range m.snapshot.Wagons {
		header := fmt.Sprintf("Car %d  roof %s  in %s", w.Car, GoldStyle.Render(strconv.Itoa(w.Roof)), GoldStyle.Render(strconv.Itoa(w.Inside)))
		if w.Car == m.snapshot.SheriffCar {
			header += "  " + SheriffStyle.Render("★")
		}
		content.WriteString(header)
		content.WriteString("\n")
		for _, p := range m.snapshot.Players {
			if p.Position.Car != w.Car {
				continue
			}
			layer := "in  "
			if p.Position.OnRoof {
				layer = "roof"
			}
			fmt.Fprintf(&content, "  %s %s\n", layer, m.playerName(p.Name))
		}
	}

	if len(m.snapshot.Players) > 0 {
		content.WriteString("\n")
		content.WriteString(InfoStyle.Render("Scoreboard:"))
		content.WriteString("\n")
		for _, p := range m.snapshot.Scoreboard() {
			fmt.Fprintf(&content, "  %s %s $%d  ⁍%d\n", m.playerName(p.Name), GoldStyle.Render(fmt.Sprintf("%d bars", p.GoldBars)), p.Credits, p.MaxBullets-p.BulletsUsed)
		}
	}

	return content.String()
}

func (m *TUIModel) playerName(name string) string {
	if name == m.human {
		return YouStyle.Render(name)
	}
	return PlayerInfoStyle.Render(name)
}

// renderActionPane renders the current prompt and the input field
func (m *TUIModel) renderActionPane() string {
	var content strings.Builder

	switch {
	case m.planning != nil:
		content.WriteString(HandInfoStyle.Render(fmt.Sprintf("Slot %d (%s)  hand:", m.planning.Slot+1, m.planning.Turn)))
		content.WriteString(" ")
		content.WriteString(m.renderHand(m.planning.Hand))
		content.WriteString("\n")
		m.actionInput.Placeholder = "Card number or name, 'draw' to draw and pass"
	case m.resolution != nil:
		content.WriteString(HandInfoStyle.Render(m.resolution.Kind.Label() + ": " + m.describeChoice(*m.resolution)))
		content.WriteString("\n")
		m.actionInput.Placeholder = "Enter your choice"
	case m.finished:
		content.WriteString(HandInfoStyle.Render("Game over"))
		content.WriteString("\n")
		m.actionInput.Placeholder = "'quit' to exit"
	default:
		content.WriteString(HandInfoStyle.Render("Waiting..."))
		content.WriteString("\n")
		m.actionInput.Placeholder = "Waiting for the train..."
	}

	content.WriteString(m.actionInput.View())
	content.WriteString("\n")

	help := "Tab to scroll log • Enter to submit • Ctrl+C to quit"
	if m.focusedPane == 0 {
		help = "Log focused: ↑↓ scroll, PgUp/PgDn half page, Home/End, Tab to input"
	}
	content.WriteString(InfoStyle.Render(help))

	return content.String()
}

func (m *TUIModel) renderHand(hand []deck.Kind) string {
	cards := make([]string, 0, len(hand)+1)
	for i, k := range hand {
		style := ActionsStyle
		if !k.Actionable() {
			style = InfoStyle
		}
		cards = append(cards, style.Render(fmt.Sprintf("[%d %s]", i+1, k.Label())))
	}
	cards = append(cards, WarningStyle.Render("[draw]"))
	return strings.Join(cards, " ")
}

// AddLogEntry appends a line to the game log
func (m *TUIModel) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
	if m.testMode {
		m.capturedLog = append(m.capturedLog, entry)
	}
}

// IsTestMode returns whether the TUI is in test mode
func (m *TUIModel) IsTestMode() bool {
	return m.testMode
}

// GetCapturedLog returns the captured log entries, nil outside test mode
func (m *TUIModel) GetCapturedLog() []string {
	if !m.testMode {
		return nil
	}
	return m.capturedLog
}

// Snapshot returns the last state the model has seen
func (m *TUIModel) Snapshot() game.Snapshot {
	return m.snapshot
}
