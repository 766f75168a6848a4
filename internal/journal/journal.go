// Package journal keeps an append-only SQLite record of message and
// appointment lifecycle events. The in-memory stores stay authoritative;
// the journal exists for operational visibility, so writes are best-effort
// and a broken journal degrades readiness, never the webhook.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/singleflight"
	_ "modernc.org/sqlite" // SQLite driver for database/sql
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	recorded_at INTEGER NOT NULL,
	sender_id TEXT NOT NULL,
	kind TEXT NOT NULL,
	module TEXT NOT NULL DEFAULT '',
	detail TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind);
CREATE INDEX IF NOT EXISTS idx_events_sender ON events(sender_id);
`

// Event kinds.
const (
	KindMessage                = "message"
	KindAppointmentCreated     = "appointment_created"
	KindAppointmentCancelled   = "appointment_cancelled"
	KindAppointmentRescheduled = "appointment_rescheduled"
)

// Journal wraps the SQLite connection.
type Journal struct {
	conn  *sql.DB
	path  string
	stats singleflight.Group
}

// Stats summarizes the journal for readiness reporting.
type Stats struct {
	Events      int `json:"events"`
	Created     int `json:"appointments_created"`
	Cancelled   int `json:"appointments_cancelled"`
	Rescheduled int `json:"appointments_rescheduled"`
}

// New opens (creating if necessary) the journal database and initializes
// the schema.
func New(dbPath string) (*Journal, error) {
	// Ensure directory exists (skip for in-memory database)
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create journal directory: %w", err)
			}
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(time.Hour)

	// WAL mode for better concurrency between webhook writers and readers.
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=30000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping journal: %w", err)
	}

	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize journal schema: %w", err)
	}

	return &Journal{conn: conn, path: dbPath}, nil
}

// NewTestJournal creates an in-memory journal for testing.
func NewTestJournal() (*Journal, error) {
	return New(":memory:")
}

// Close closes the journal.
func (j *Journal) Close() error {
	if j.conn != nil {
		return j.conn.Close()
	}
	return nil
}

// Path returns the journal file path.
func (j *Journal) Path() string {
	return j.path
}

// Ready checks the journal connection.
func (j *Journal) Ready(ctx context.Context) error {
	return j.conn.PingContext(ctx)
}

// RecordMessage appends a processed-message event.
func (j *Journal) RecordMessage(ctx context.Context, senderID, module, status string) error {
	return j.append(ctx, senderID, KindMessage, module, status)
}

// RecordAppointment appends an appointment lifecycle event. The kind must be
// one of the KindAppointment* constants; detail carries the confirmation id.
func (j *Journal) RecordAppointment(ctx context.Context, senderID, kind, appointmentID string) error {
	return j.append(ctx, senderID, kind, "booking", appointmentID)
}

func (j *Journal) append(ctx context.Context, senderID, kind, module, detail string) error {
	_, err := j.conn.ExecContext(ctx,
		`INSERT INTO events (recorded_at, sender_id, kind, module, detail) VALUES (?, ?, ?, ?, ?)`,
		time.Now().Unix(), senderID, kind, module, detail,
	)
	if err != nil {
		return fmt.Errorf("failed to append %s event: %w", kind, err)
	}
	return nil
}

// CountKind returns the number of events of one kind.
func (j *Journal) CountKind(ctx context.Context, kind string) (int, error) {
	var count int
	err := j.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE kind = ?`, kind).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s events: %w", kind, err)
	}
	return count, nil
}

// GetStats gathers journal counters. Concurrent callers share one query
// round via singleflight, so a scrape storm cannot pile up on SQLite.
func (j *Journal) GetStats(ctx context.Context) (Stats, error) {
	v, err, _ := j.stats.Do("stats", func() (any, error) {
		var s Stats
		row := j.conn.QueryRowContext(ctx, `
			SELECT
				COUNT(*),
				COALESCE(SUM(kind = ?), 0),
				COALESCE(SUM(kind = ?), 0),
				COALESCE(SUM(kind = ?), 0)
			FROM events`,
			KindAppointmentCreated, KindAppointmentCancelled, KindAppointmentRescheduled,
		)
		if err := row.Scan(&s.Events, &s.Created, &s.Cancelled, &s.Rescheduled); err != nil {
			return Stats{}, fmt.Errorf("failed to gather journal stats: %w", err)
		}
		return s, nil
	})
	if err != nil {
		return Stats{}, err
	}
	return v.(Stats), nil
}
