package game

import (
	"sync"
	"time"

	"github.com/lox/trainheist/internal/deck"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events
const (
	EventTypeGameCardStarted EventType = "game_card_started"
	EventTypeCardRevealed    EventType = "card_revealed"
	EventTypeStateChanged    EventType = "state_changed"
	EventTypeActionResult    EventType = "action_result"
	EventTypeGameOver        EventType = "game_over"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event that occurs during a game
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// ChangeKind says what a StateChangedEvent mutated
type ChangeKind string

const (
	ChangePosition ChangeKind = "position"
	ChangeGold     ChangeKind = "gold"
	ChangeBullets  ChangeKind = "bullets"
	ChangeSheriff  ChangeKind = "sheriff"
	ChangeHand     ChangeKind = "hand"
)

// StateChangedEvent is published after every mutation of the game state.
// Snapshot is an immutable copy taken right after the change.
type StateChangedEvent struct {
	Change    ChangeKind
	Player    string
	Snapshot  Snapshot
	timestamp time.Time
}

func (e StateChangedEvent) EventType() EventType { return EventTypeStateChanged }
func (e StateChangedEvent) Timestamp() time.Time { return e.timestamp }

// NewStateChangedEvent creates a new state changed event
func NewStateChangedEvent(change ChangeKind, player string, snap Snapshot) StateChangedEvent {
	return StateChangedEvent{
		Change:    change,
		Player:    player,
		Snapshot:  snap,
		timestamp: time.Now(),
	}
}

// CardRevealedEvent is published once per planned card and once per resolved
// card. Kind is deck.Hidden for Tunnel slots during planning.
type CardRevealedEvent struct {
	Kind      deck.Kind
	Owner     string
	Phase     Phase
	Turn      TurnType
	timestamp time.Time
}

func (e CardRevealedEvent) EventType() EventType { return EventTypeCardRevealed }
func (e CardRevealedEvent) Timestamp() time.Time { return e.timestamp }

// NewCardRevealedEvent creates a new card revealed event
func NewCardRevealedEvent(kind deck.Kind, owner string, phase Phase, turn TurnType) CardRevealedEvent {
	return CardRevealedEvent{
		Kind:      kind,
		Owner:     owner,
		Phase:     phase,
		Turn:      turn,
		timestamp: time.Now(),
	}
}

// GameCardStartedEvent is published when a GameCard enters planning
type GameCardStartedEvent struct {
	GameID      string
	Index       int
	Total       int
	Card        GameCard
	Description string
	timestamp   time.Time
}

func (e GameCardStartedEvent) EventType() EventType { return EventTypeGameCardStarted }
func (e GameCardStartedEvent) Timestamp() time.Time { return e.timestamp }

// NewGameCardStartedEvent creates a new game card started event
func NewGameCardStartedEvent(gameID string, index, total int, card GameCard) GameCardStartedEvent {
	return GameCardStartedEvent{
		GameID:      gameID,
		Index:       index,
		Total:       total,
		Card:        card,
		Description: card.Describe(index),
		timestamp:   time.Now(),
	}
}

// ActionResultEvent reports the outcome of one resolved card, including
// no-ops such as "no gold bars" or a race between prompt and confirmation.
type ActionResultEvent struct {
	Player    string
	Kind      deck.Kind
	Applied   bool
	Message   string
	timestamp time.Time
}

func (e ActionResultEvent) EventType() EventType { return EventTypeActionResult }
func (e ActionResultEvent) Timestamp() time.Time { return e.timestamp }

// NewActionResultEvent creates a new action result event
func NewActionResultEvent(player string, kind deck.Kind, applied bool, message string) ActionResultEvent {
	return ActionResultEvent{
		Player:    player,
		Kind:      kind,
		Applied:   applied,
		Message:   message,
		timestamp: time.Now(),
	}
}

// GameOverEvent carries the final standings, sorted by credits
type GameOverEvent struct {
	GameID    string
	Standings []Standing
	timestamp time.Time
}

func (e GameOverEvent) EventType() EventType { return EventTypeGameOver }
func (e GameOverEvent) Timestamp() time.Time { return e.timestamp }

// NewGameOverEvent creates a new game over event
func NewGameOverEvent(gameID string, standings []Standing) GameOverEvent {
	return GameOverEvent{
		GameID:    gameID,
		Standings: standings,
		timestamp: time.Now(),
	}
}

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventSubscriberFunc adapts a function to EventSubscriber
type EventSubscriberFunc func(event GameEvent)

// OnEvent calls f(event)
func (f EventSubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus implementation. Publish runs
// subscribers synchronously on the publishing goroutine.
type SimpleEventBus struct {
	mu          sync.RWMutex
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	bus.mu.RLock()
	subscribers := bus.subscribers
	bus.mu.RUnlock()

	for _, subscriber := range subscribers {
		subscriber.OnEvent(event)
	}
}

// EventRecorder is a subscriber that keeps every event it sees
type EventRecorder struct {
	mu     sync.Mutex
	events []GameEvent
}

// OnEvent records the event
func (r *EventRecorder) OnEvent(event GameEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of the recorded events
func (r *EventRecorder) Events() []GameEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]GameEvent, len(r.events))
	copy(out, r.events)
	return out
}

// OfType returns the recorded events of one type
func (r *EventRecorder) OfType(et EventType) []GameEvent {
	var out []GameEvent
	for _, e := range r.Events() {
		if e.EventType() == et {
			out = append(out, e)
		}
	}
	return out
}
