package session

type State int

const (
	StateIdle State = iota
	StateResolving
	StateDispatching
	StateFallback
	StateResponding
	StateExiting
	StateDormant
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolving:
		return "resolving"
	case StateDispatching:
		return "dispatching"
	case StateFallback:
		return "fallback"
	case StateResponding:
		return "responding"
	case StateExiting:
		return "exiting"
	case StateDormant:
		return "dormant"
	default:
		return "unknown"
	}
}

// Outcome tells why Loop.Run returned.
type Outcome int

const (
	OutcomeExit Outcome = iota
	OutcomeDormant
	OutcomeClosed
	OutcomeInterrupted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeExit:
		return "exit"
	case OutcomeDormant:
		return "dormant"
	case OutcomeClosed:
		return "closed"
	case OutcomeInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// Observer is notified on every state change.
type Observer func(State)
