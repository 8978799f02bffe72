package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned when an id does not resolve to a live
// session. Expired and deleted ids report this, never some other
// session's state: ids are UUIDs and are never reused.
var ErrSessionNotFound = errors.New("session: not found")

const (
	defaultMaxIdle       = 30 * time.Minute
	defaultSweepInterval = 5 * time.Minute
)

// Store is the in-memory session arena. Reads take the shared lock so
// lookups stay cheap under concurrent traffic.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	maxIdle  time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// StoreOption configures a Store.
type StoreOption func(*storeOptions)

type storeOptions struct {
	maxIdle       time.Duration
	sweepInterval time.Duration
}

// WithMaxIdle sets how long an untouched session survives before the
// sweeper removes it.
func WithMaxIdle(d time.Duration) StoreOption {
	return func(o *storeOptions) { o.maxIdle = d }
}

// WithSweepInterval sets how often the background sweeper runs.
func WithSweepInterval(d time.Duration) StoreOption {
	return func(o *storeOptions) { o.sweepInterval = d }
}

// NewStore creates a store and starts its expiry sweeper.
func NewStore(opts ...StoreOption) *Store {
	o := storeOptions{maxIdle: defaultMaxIdle, sweepInterval: defaultSweepInterval}
	for _, opt := range opts {
		opt(&o)
	}
	st := &Store{
		sessions: make(map[string]*Session),
		maxIdle:  o.maxIdle,
		stop:     make(chan struct{}),
	}
	go st.sweep(o.sweepInterval)
	return st
}

// Create registers a new session in StateSetup and returns it.
func (st *Store) Create(persona string, age int, scenario string) *Session {
	s := &Session{
		ID:       uuid.NewString(),
		Persona:  persona,
		Age:      age,
		Scenario: scenario,
		state:    StateSetup,
	}
	s.touch()
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get resolves an id to a live session.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete removes a session. Deleting an unknown id is a no-op.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// ActiveCount reports the number of live sessions.
func (st *Store) ActiveCount() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Close stops the background sweeper.
func (st *Store) Close() {
	st.stopOnce.Do(func() { close(st.stop) })
}

func (st *Store) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-st.stop:
			return
		case <-ticker.C:
			st.expire(time.Now())
		}
	}
}

// expire removes sessions idle longer than maxIdle. Split out from the
// sweeper loop so tests can drive it with a fixed clock. Idleness is
// read atomically, never via a session's mutex: a sweep tick must not
// queue behind an in-flight generation, and the store write lock is
// only taken for the short delete pass.
func (st *Store) expire(now time.Time) {
	cutoff := now.Add(-st.maxIdle).UnixNano()

	st.mu.RLock()
	var stale []string
	for id, s := range st.sessions {
		if s.lastSeen.Load() < cutoff {
			stale = append(stale, id)
		}
	}
	st.mu.RUnlock()
	if len(stale) == 0 {
		return
	}

	st.mu.Lock()
	for _, id := range stale {
		// Re-check: the session may have been touched between passes.
		if s, ok := st.sessions[id]; ok && s.lastSeen.Load() < cutoff {
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()
}
