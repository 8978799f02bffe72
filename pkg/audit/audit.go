// Package audit records classification and coaching outcomes so a
// training run can be reviewed after the fact.
package audit

import "time"

// Event is one recorded session outcome.
type Event struct {
	SessionID string
	Kind      string // "message", "mentor_triggered", "mentor_fallback", "resumed", "reset"
	Risk      string
	Category  string
	Fragment  string
	Mode      string
	At        time.Time
}

// Recorder accepts events. Implementations must not block the caller;
// the hot path hands events off and moves on.
type Recorder interface {
	Record(Event)
}

// Nop discards every event. Used when no audit store is configured.
type Nop struct{}

func (Nop) Record(Event) {}
