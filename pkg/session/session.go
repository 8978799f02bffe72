package session

import (
	"sync"
	"sync/atomic"
	"time"
)

// Session is one trainee's simulation. State and history are guarded
// by mu; operations on a session are serialized, so a slow generation
// for one session never blocks another. lastSeen is atomic so the
// store's expiry sweep never contends with an in-flight operation.
type Session struct {
	ID       string
	Persona  string
	Age      int
	Scenario string

	mu      sync.Mutex
	state   State
	history History

	lastSeen atomic.Int64 // unix nanos
}

func (s *Session) transition(to State) error {
	if !canTransition(s.state, to) {
		return ErrInvalidTransition
	}
	s.state = to
	return nil
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Transcript returns a copy of the full conversation so far.
func (s *Session) Transcript() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Turns()
}

func (s *Session) touch() { s.lastSeen.Store(time.Now().UnixNano()) }
