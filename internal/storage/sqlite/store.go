package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const defaultPath = "data/surebet.db"

// Store wraps a SQLite DB connection.
type Store struct {
	path string
	db   *sql.DB
}

// Open creates (if needed) and opens the SQLite database.
func Open(path string) (*Store, error) {
	if path == "" {
		path = defaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := ensureWAL(db); err != nil {
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	return &Store{path: path, db: db}, nil
}

func ensureWAL(db *sql.DB) error {
	const (
		maxAttempts = 5
		delay       = 200 * time.Millisecond
	)
	for i := 0; i < maxAttempts; i++ {
		if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			if strings.Contains(err.Error(), "database is locked") {
				time.Sleep(delay)
				continue
			}
			return err
		}
		return nil
	}
	return fmt.Errorf("database is locked after retries")
}

// Path returns the path backing the store.
func (s *Store) Path() string {
	return s.path
}

// Close closes the DB.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// CreateTables ensures the opportunity and alert tables exist.
func (s *Store) CreateTables(ctx context.Context) error {
	for _, stmt := range []string{opportunitiesSchemaSQL, alertsSchemaSQL} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// DropTables removes all tables.
func (s *Store) DropTables(ctx context.Context) error {
	for _, stmt := range []string{
		`DROP TABLE IF EXISTS opportunities;`,
		`DROP TABLE IF EXISTS alerts;`,
	} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// ClearTables truncates all tables.
func (s *Store) ClearTables(ctx context.Context) error {
	for _, stmt := range []string{
		`DELETE FROM opportunities;`,
		`DELETE FROM alerts;`,
	} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

const opportunitiesSchemaSQL = `
CREATE TABLE IF NOT EXISTS opportunities (
	id TEXT PRIMARY KEY,
	fingerprint TEXT NOT NULL,
	event_id TEXT NOT NULL,
	sport_key TEXT NOT NULL,
	market_type TEXT NOT NULL,
	kind TEXT NOT NULL,
	profit_percentage REAL NOT NULL,
	total_investment REAL,
	guaranteed_return REAL,
	stake_allocations_json TEXT NOT NULL,
	legs_json TEXT NOT NULL,
	detected_at TEXT NOT NULL,
	expires_at TEXT,
	status TEXT NOT NULL DEFAULT 'detected'
);
CREATE INDEX IF NOT EXISTS idx_opportunities_detected_at ON opportunities(detected_at);
CREATE INDEX IF NOT EXISTS idx_opportunities_fingerprint ON opportunities(fingerprint);
`

const alertsSchemaSQL = `
CREATE TABLE IF NOT EXISTS alerts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	level TEXT NOT NULL,
	category TEXT NOT NULL,
	message TEXT NOT NULL,
	data_json TEXT,
	created_at TEXT NOT NULL
);
`
