package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/mikey/eco-scheduler/internal/core"
	"go.uber.org/zap"
)

// sqlStore holds the queries shared by the SQLite and MySQL backends.
// Days are stored as YYYY-MM-DD text and creation times as unix seconds.
type sqlStore struct {
	db          *sql.DB
	name        string
	logger      *zap.Logger
	retention   time.Duration
	cleanupFreq time.Duration
	now         func() time.Time
	stopCh      chan struct{}
	stopOnce    sync.Once
}

func newSQLStore(db *sql.DB, name string, logger *zap.Logger, retention, cleanupFreq time.Duration) *sqlStore {
	if retention <= 0 {
		retention = DefaultRetention
	}
	s := &sqlStore{
		db:          db,
		name:        name,
		logger:      logger,
		retention:   retention,
		cleanupFreq: cleanupFreq,
		now:         time.Now,
		stopCh:      make(chan struct{}),
	}

	if cleanupFreq > 0 {
		go s.startCleanupTask()
	}

	return s
}

// Create stores a new event
func (s *sqlStore) Create(ctx context.Context, event *core.CalendarEvent) error {
	if err := prepare(event, s.now()); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO calendar_events (id, title, event_date, owner_email, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, event.ID, event.Title, event.Day(), event.OwnerEmail, event.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	return nil
}

// ListByOwner returns the owner's events ordered by date
func (s *sqlStore) ListByOwner(ctx context.Context, ownerEmail string) ([]*core.CalendarEvent, error) {
	return s.query(ctx, `
		SELECT id, title, event_date, owner_email, created_at
		FROM calendar_events
		WHERE owner_email = ?
		ORDER BY event_date, created_at, id
	`, normalizeEmail(ownerEmail))
}

// ListOnDate returns every event scheduled on the given calendar day
func (s *sqlStore) ListOnDate(ctx context.Context, day time.Time) ([]*core.CalendarEvent, error) {
	return s.query(ctx, `
		SELECT id, title, event_date, owner_email, created_at
		FROM calendar_events
		WHERE event_date = ?
		ORDER BY event_date, created_at, id
	`, day.Format(core.DateLayout))
}

// Delete removes an event belonging to the owner
func (s *sqlStore) Delete(ctx context.Context, id, ownerEmail string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM calendar_events
		WHERE id = ? AND owner_email = ?
	`, id, normalizeEmail(ownerEmail))
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to confirm event deletion: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Cleanup removes events past the retention window
func (s *sqlStore) Cleanup(ctx context.Context) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM calendar_events
		WHERE event_date < ?
	`, cutoffDay(s.now(), s.retention))
	if err != nil {
		return fmt.Errorf("failed to clean up expired events: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		s.logger.Warn("Failed to get rows affected during cleanup", zap.Error(err))
	} else {
		s.logger.Debug("Cleaned up expired events", zap.Int64("expired_count", rowsAffected))
	}

	return nil
}

// Stop stops the background cleanup task and closes the database connection
func (s *sqlStore) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database", zap.String("backend", s.name), zap.Error(err))
		}
	})
}

func (s *sqlStore) query(ctx context.Context, query string, args ...interface{}) ([]*core.CalendarEvent, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := make([]*core.CalendarEvent, 0)
	for rows.Next() {
		var (
			event     core.CalendarEvent
			day       string
			createdAt int64
		)
		if err := rows.Scan(&event.ID, &event.Title, &day, &event.OwnerEmail, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		event.Date, err = time.ParseInLocation(core.DateLayout, day, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("failed to parse event date %q: %w", day, err)
		}
		event.CreatedAt = time.Unix(createdAt, 0).UTC()
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}

	return events, nil
}

// startCleanupTask starts a background task to clean up expired events
func (s *sqlStore) startCleanupTask() {
	ticker := time.NewTicker(s.cleanupFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.Cleanup(context.Background()); err != nil {
				s.logger.Error("Failed to clean up events", zap.String("backend", s.name), zap.Error(err))
			}
		case <-s.stopCh:
			return
		}
	}
}
