package scheduler

// Phase is the state of the scheduler state machine
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSelectingGameCard
	PhasePlanning
	PhaseResolving
	PhaseGameOver
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseSelectingGameCard:
		return "SelectingGameCard"
	case PhasePlanning:
		return "Planning"
	case PhaseResolving:
		return "Resolving"
	case PhaseGameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}
