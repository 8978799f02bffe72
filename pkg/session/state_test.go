package session

import "testing"

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		from, to State
		ok       bool
	}{
		{StateSetup, StateSimulating, true},
		{StateSetup, StateEnded, true},
		{StateSetup, StateMentor, false},
		{StateSimulating, StateMentor, true},
		{StateSimulating, StateEnded, true},
		{StateSimulating, StateSetup, false},
		{StateMentor, StateSimulating, true},
		{StateMentor, StateEnded, true},
		{StateMentor, StateSetup, false},
		{StateEnded, StateSetup, false},
		{StateEnded, StateSimulating, false},
		{StateEnded, StateMentor, false},
		{StateEnded, StateEnded, false},
	}
	for _, c := range cases {
		if got := canTransition(c.from, c.to); got != c.ok {
			t.Errorf("canTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.ok)
		}
	}
}

func TestTransitionRejectionLeavesStateUnchanged(t *testing.T) {
	s := &Session{state: StateEnded}
	if err := s.transition(StateSimulating); err != ErrInvalidTransition {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
	if s.state != StateEnded {
		t.Errorf("state = %s, want ENDED", s.state)
	}
}

func TestStateString(t *testing.T) {
	for state, want := range map[State]string{
		StateSetup:      "SETUP",
		StateSimulating: "SIMULATING",
		StateMentor:     "MENTOR",
		StateEnded:      "ENDED",
		State(99):       "UNKNOWN",
	} {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
}
