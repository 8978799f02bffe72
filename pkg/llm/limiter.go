package llm

import (
	"context"
	"sync/atomic"
)

// Limiter caps in-flight generations across all sessions so a burst of
// simultaneous turns cannot pile unbounded requests onto the backend.
// Waiters queue until a slot frees or their context expires.
type Limiter struct {
	slots    chan struct{}
	rejected atomic.Int64
}

// NewLimiter creates a limiter with the given capacity.
func NewLimiter(capacity int) *Limiter {
	if capacity <= 0 {
		capacity = 32
	}
	return &Limiter{slots: make(chan struct{}, capacity)}
}

// Acquire blocks until a slot is available or ctx expires. A deadline
// expiry counts as a rejection for monitoring.
func (l *Limiter) Acquire(ctx context.Context) error {
	select {
	case l.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		l.rejected.Add(1)
		return ctx.Err()
	}
}

// Release returns a slot. Must follow a successful Acquire.
func (l *Limiter) Release() {
	select {
	case <-l.slots:
	default:
	}
}

// InFlight reports how many generations hold a slot right now.
func (l *Limiter) InFlight() int { return len(l.slots) }

// Rejected reports how many acquisitions timed out waiting for a slot.
func (l *Limiter) Rejected() int64 { return l.rejected.Load() }
