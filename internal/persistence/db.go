// Package persistence provides the SQLite audit archive: every event and
// prediction the engine emits is appended here for after-action review.
// This is an advisory trail, not session persistence — a restart always
// re-seeds the population from scratch.
// See design doc Section 8.2.
package persistence

import (
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/crowd-sentinel/internal/engine"
)

// DB wraps a SQLite connection for the audit archive.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		at TEXT NOT NULL,
		agent_id INTEGER,
		agent_name TEXT,
		description TEXT NOT NULL,
		category TEXT NOT NULL,
		icon TEXT
	);

	CREATE TABLE IF NOT EXISTS predictions (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		agent_id INTEGER NOT NULL,
		agent_name TEXT NOT NULL,
		kind TEXT NOT NULL,
		confidence INTEGER NOT NULL,
		factors TEXT,
		suggested_action TEXT NOT NULL,
		priority TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS run_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
	CREATE INDEX IF NOT EXISTS idx_events_category ON events(category);
	CREATE INDEX IF NOT EXISTS idx_predictions_agent ON predictions(agent_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// RecordEvents appends a batch of events to the archive.
func (db *DB) RecordEvents(events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT INTO events
		(tick, at, agent_id, agent_name, description, category, icon)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		_, err := stmt.Exec(e.Tick, e.At.Format(time.RFC3339Nano),
			e.AgentID, e.AgentName, e.Description, e.Category, e.Icon)
		if err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}
	return tx.Commit()
}

// RecordPredictions appends a batch of predictions to the archive.
// Re-recording an id is a no-op (dismissed entries stay archived once).
func (db *DB) RecordPredictions(preds []engine.Prediction) error {
	if len(preds) == 0 {
		return nil
	}
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT OR IGNORE INTO predictions
		(id, created_at, agent_id, agent_name, kind, confidence, factors, suggested_action, priority)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range preds {
		_, err := stmt.Exec(p.ID, p.CreatedAt.Format(time.RFC3339Nano),
			p.AgentID, p.AgentName, string(p.Kind), p.Confidence,
			strings.Join(p.SnapshotFactors, "|"), p.SuggestedAction, string(p.Priority))
		if err != nil {
			return fmt.Errorf("insert prediction: %w", err)
		}
	}
	return tx.Commit()
}

// SetMeta stores a run metadata key (seed, start time, config path).
func (db *DB) SetMeta(key, value string) error {
	_, err := db.conn.Exec(
		`INSERT INTO run_meta (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// GetMeta reads a run metadata key.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM run_meta WHERE key = ?", key)
	return value, err
}

// EventCount returns the archived event total (used by the status surface).
func (db *DB) EventCount() (int, error) {
	var n int
	err := db.conn.Get(&n, "SELECT COUNT(*) FROM events")
	return n, err
}
