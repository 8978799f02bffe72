package session

import "errors"

// State is the lifecycle position of a simulation session.
type State int

const (
	// StateSetup is the pre-first-turn state: the session exists but no
	// opening scammer message has been generated yet.
	StateSetup State = iota
	// StateSimulating is the active scam conversation.
	StateSimulating
	// StateMentor is the paused safety-coaching state, reachable only
	// from StateSimulating via a HIGH verdict.
	StateMentor
	// StateEnded is terminal. Nothing leaves it; a new simulation means
	// a new session.
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateSetup:
		return "SETUP"
	case StateSimulating:
		return "SIMULATING"
	case StateMentor:
		return "MENTOR"
	case StateEnded:
		return "ENDED"
	default:
		return "UNKNOWN"
	}
}

// ErrInvalidTransition is returned when an operation demands a state
// change the transition table does not allow. Illegal transitions are
// rejected, never silently ignored.
var ErrInvalidTransition = errors.New("session: invalid state transition")

// ErrSimulationEnded is returned when an operation tries to resume a
// session that already reached StateEnded. An ended conversation can
// only be replaced by a new session.
var ErrSimulationEnded = errors.New("session: simulation has ended")

// legalTransitions is the complete transition table. StateEnded has no
// outgoing edges on purpose.
var legalTransitions = map[State][]State{
	StateSetup:      {StateSimulating, StateEnded},
	StateSimulating: {StateMentor, StateEnded},
	StateMentor:     {StateSimulating, StateEnded},
	StateEnded:      nil,
}

func canTransition(from, to State) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
