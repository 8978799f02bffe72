package llm

import (
	"context"
	"testing"
	"time"
)

func TestLimiterCapacity(t *testing.T) {
	l := NewLimiter(2)
	ctx := context.Background()

	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("first Acquire: %v", err)
	}
	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("second Acquire: %v", err)
	}
	if l.InFlight() != 2 {
		t.Errorf("InFlight = %d, want 2", l.InFlight())
	}

	// Third acquisition waits; an expired context rejects it.
	short, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	if err := l.Acquire(short); err == nil {
		t.Fatal("Acquire succeeded beyond capacity")
	}
	if l.Rejected() != 1 {
		t.Errorf("Rejected = %d, want 1", l.Rejected())
	}

	l.Release()
	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("Acquire after Release: %v", err)
	}
}

func TestLimiterDefaultCapacity(t *testing.T) {
	l := NewLimiter(0)
	if cap(l.slots) != 32 {
		t.Errorf("default capacity = %d, want 32", cap(l.slots))
	}
}

func TestLimiterReleaseWithoutAcquire(t *testing.T) {
	l := NewLimiter(1)
	l.Release() // must not underflow or panic
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
}
