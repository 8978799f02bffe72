package audit

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const eventQueueSize = 256

// SQLiteRecorder persists events to a local SQLite database. Writes go
// through a single background goroutine so SendMessage never waits on
// disk; if the queue is full the event is dropped rather than stalling
// a session.
type SQLiteRecorder struct {
	db     *sql.DB
	events chan Event
	done   chan struct{}
	once   sync.Once
	logger *zap.Logger
}

// NewSQLiteRecorder opens (or creates) the database at path and starts
// the writer goroutine.
func NewSQLiteRecorder(path string, logger *zap.Logger) (*SQLiteRecorder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	dsn := path + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}
	db.SetMaxOpenConns(1)

	r := &SQLiteRecorder{
		db:     db,
		events: make(chan Event, eventQueueSize),
		done:   make(chan struct{}),
		logger: logger,
	}
	if err := r.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	go r.writer()
	return r, nil
}

func (r *SQLiteRecorder) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS audit_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		risk TEXT,
		category TEXT,
		fragment TEXT,
		mode TEXT,
		at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_audit_session ON audit_events(session_id);
	`
	if _, err := r.db.Exec(query); err != nil {
		return fmt.Errorf("init audit schema: %w", err)
	}
	return nil
}

// Record queues an event for persistence. Never blocks.
func (r *SQLiteRecorder) Record(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	select {
	case r.events <- e:
	default:
		r.logger.Warn("audit queue full, dropping event",
			zap.String("session_id", e.SessionID),
			zap.String("kind", e.Kind))
	}
}

func (r *SQLiteRecorder) writer() {
	defer close(r.done)
	for e := range r.events {
		_, err := r.db.Exec(
			`INSERT INTO audit_events (session_id, kind, risk, category, fragment, mode, at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			e.SessionID, e.Kind, e.Risk, e.Category, e.Fragment, e.Mode, e.At.Unix(),
		)
		if err != nil {
			r.logger.Error("audit insert failed", zap.Error(err))
		}
	}
}

// Close flushes queued events and closes the database.
func (r *SQLiteRecorder) Close() error {
	r.once.Do(func() { close(r.events) })
	<-r.done
	return r.db.Close()
}
