// Package snapshot provides SQLite persistence for last-fetch snapshots.
//
// Each management screen saves its most recent successful fetch here so it
// can render stale data when the API is unreachable. Staleness is explicit
// (the saved-at time comes back with every load) and is never reconciled
// automatically - a snapshot is only replaced by the next successful fetch.
package snapshot

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNoSnapshot is returned by Load when no snapshot exists for the name.
var ErrNoSnapshot = errors.New("snapshot: no snapshot")

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates a Store with the given database path.
// Creates tables if they don't exist.
// Uses WAL mode for better concurrent read performance (file-based DBs only).
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// For in-memory databases, use shared cache mode so all connections
		// in the pool see the same database
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}

	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		collection TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		saved_at DATETIME NOT NULL
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Save stores v as the snapshot for collection, replacing any previous one.
func (s *Store) Save(collection string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.Exec(`
		INSERT INTO snapshots (collection, payload, saved_at)
		VALUES (?, ?, ?)
		ON CONFLICT(collection) DO UPDATE SET
			payload = excluded.payload,
			saved_at = excluded.saved_at
	`, collection, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load decodes the snapshot for collection into v and returns when it was
// saved. Returns ErrNoSnapshot when the collection has never been saved.
func (s *Store) Load(collection string, v any) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload string
	var savedAt time.Time
	err := s.db.QueryRow(`
		SELECT payload, saved_at FROM snapshots WHERE collection = ?
	`, collection).Scan(&payload, &savedAt)
	if err == sql.ErrNoRows {
		return time.Time{}, ErrNoSnapshot
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("load snapshot: %w", err)
	}

	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return time.Time{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return savedAt, nil
}

// Clear removes the snapshot for collection. No error when absent.
func (s *Store) Clear(collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM snapshots WHERE collection = ?`, collection); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	return nil
}
