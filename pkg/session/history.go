package session

import "strings"

// Role identifies who produced a conversation turn.
type Role string

const (
	// RoleUser is a message typed by the trainee.
	RoleUser Role = "user"
	// RoleScammer is a generated message from the simulated scammer.
	RoleScammer Role = "scammer"
	// RoleMentor is coaching text produced when a risky reply pauses the
	// simulation. Recorded for review, never fed back into scam prompts.
	RoleMentor Role = "mentor"
)

// Turn is a single message in a session transcript. Ordinal is the
// zero-based append position and never changes once assigned.
type Turn struct {
	Role    Role   `json:"role"`
	Text    string `json:"text"`
	Ordinal int    `json:"ordinal"`
}

// History is the append-only transcript of a session. It is not
// self-locking; callers hold the owning session's lock.
type History struct {
	turns []Turn
}

// Append records a turn and assigns its ordinal.
func (h *History) Append(role Role, text string) {
	h.turns = append(h.turns, Turn{Role: role, Text: text, Ordinal: len(h.turns)})
}

// Len reports the number of recorded turns.
func (h *History) Len() int { return len(h.turns) }

// Turns returns a copy of the full transcript.
func (h *History) Turns() []Turn {
	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

// RecentWindow returns at most max trailing turns. Older turns stay in
// the transcript but never reach the generator prompt.
func (h *History) RecentWindow(max int) []Turn {
	if max <= 0 || len(h.turns) <= max {
		return h.Turns()
	}
	out := make([]Turn, max)
	copy(out, h.turns[len(h.turns)-max:])
	return out
}

// LastScammerTurn returns the most recent generated turn, if any.
func (h *History) LastScammerTurn() (Turn, bool) {
	for i := len(h.turns) - 1; i >= 0; i-- {
		if h.turns[i].Role == RoleScammer {
			return h.turns[i], true
		}
	}
	return Turn{}, false
}

func (h *History) reset() { h.turns = nil }

// RenderTranscript formats turns for inclusion in a generation prompt.
// Mentor turns are omitted: coaching text must never leak into the
// scammer's context.
func RenderTranscript(turns []Turn) string {
	var b strings.Builder
	for _, t := range turns {
		switch t.Role {
		case RoleUser:
			b.WriteString("User: ")
		case RoleScammer:
			b.WriteString("Scammer: ")
		default:
			continue
		}
		b.WriteString(t.Text)
		b.WriteByte('\n')
	}
	return b.String()
}
