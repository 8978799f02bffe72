package session

import (
	"fmt"
	"strings"
	"testing"
)

func TestHistoryOrdinals(t *testing.T) {
	var h History
	h.Append(RoleScammer, "hello")
	h.Append(RoleUser, "who is this")
	h.Append(RoleScammer, "your bank manager")

	turns := h.Turns()
	if len(turns) != 3 {
		t.Fatalf("len = %d, want 3", len(turns))
	}
	for i, turn := range turns {
		if turn.Ordinal != i {
			t.Errorf("turn %d ordinal = %d", i, turn.Ordinal)
		}
	}
}

func TestRecentWindowBounds(t *testing.T) {
	var h History
	for i := 0; i < 14; i++ {
		h.Append(RoleUser, fmt.Sprintf("msg %d", i))
	}

	win := h.RecentWindow(10)
	if len(win) != 10 {
		t.Fatalf("window len = %d, want 10", len(win))
	}
	if win[0].Text != "msg 4" || win[9].Text != "msg 13" {
		t.Errorf("window spans %q..%q, want msg 4..msg 13", win[0].Text, win[9].Text)
	}

	// Shorter-than-window transcripts come back whole.
	var short History
	short.Append(RoleUser, "only")
	if got := short.RecentWindow(10); len(got) != 1 {
		t.Errorf("short window len = %d, want 1", len(got))
	}
}

func TestLastScammerTurn(t *testing.T) {
	var h History
	if _, ok := h.LastScammerTurn(); ok {
		t.Fatal("empty history reported a scammer turn")
	}
	h.Append(RoleScammer, "first")
	h.Append(RoleUser, "why")
	h.Append(RoleScammer, "second")
	h.Append(RoleUser, "hmm")

	turn, ok := h.LastScammerTurn()
	if !ok || turn.Text != "second" {
		t.Errorf("LastScammerTurn = %q, %v; want second, true", turn.Text, ok)
	}
}

func TestRenderTranscript(t *testing.T) {
	var h History
	h.Append(RoleScammer, "your account is blocked")
	h.Append(RoleUser, "what happened")

	out := RenderTranscript(h.Turns())
	want := "Scammer: your account is blocked\nUser: what happened\n"
	if out != want {
		t.Errorf("RenderTranscript = %q, want %q", out, want)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("transcript must end with newline")
	}
}

func TestRenderTranscriptSkipsMentorTurns(t *testing.T) {
	var h History
	h.Append(RoleScammer, "share your otp to unblock")
	h.Append(RoleUser, "ok sending it")
	h.Append(RoleMentor, "that reply would hand over your one-time password")

	out := RenderTranscript(h.Turns())
	if strings.Contains(out, "one-time password") {
		t.Errorf("mentor text leaked into transcript: %q", out)
	}
}
