package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// SQLiteStore is a SQLite implementation of the EventStore interface
type SQLiteStore struct {
	*sqlStore
}

// NewSQLiteStore creates a new SQLite event store
func NewSQLiteStore(dbPath string, logger *zap.Logger, retention, cleanupFreq time.Duration) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// SQLite serializes writers; one connection also keeps :memory: databases shared
	db.SetMaxOpenConns(1)

	// Create table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS calendar_events (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			event_date TEXT NOT NULL,
			owner_email TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	for _, stmt := range []string{
		`CREATE INDEX IF NOT EXISTS idx_events_owner ON calendar_events(owner_email)`,
		`CREATE INDEX IF NOT EXISTS idx_events_date ON calendar_events(event_date)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create index: %w", err)
		}
	}

	return &SQLiteStore{sqlStore: newSQLStore(db, "sqlite", logger, retention, cleanupFreq)}, nil
}
