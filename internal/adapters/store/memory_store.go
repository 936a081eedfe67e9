package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mikey/eco-scheduler/internal/core"
	"go.uber.org/zap"
)

// MemoryStore is an in-memory implementation of the EventStore interface
type MemoryStore struct {
	events      map[string]*core.CalendarEvent
	mu          sync.RWMutex
	logger      *zap.Logger
	retention   time.Duration
	cleanupFreq time.Duration
	now         func() time.Time
	stopCh      chan struct{}
	stopOnce    sync.Once
}

// NewMemoryStore creates a new in-memory event store. A zero cleanupFreq
// disables the background cleanup task.
func NewMemoryStore(logger *zap.Logger, retention, cleanupFreq time.Duration) *MemoryStore {
	if retention <= 0 {
		retention = DefaultRetention
	}
	s := &MemoryStore{
		events:      make(map[string]*core.CalendarEvent),
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
func (s *MemoryStore) Create(ctx context.Context, event *core.CalendarEvent) error {
	if err := prepare(event, s.now()); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *event
	s.events[event.ID] = &stored
	return nil
}

// ListByOwner returns the owner's events ordered by date
func (s *MemoryStore) ListByOwner(ctx context.Context, ownerEmail string) ([]*core.CalendarEvent, error) {
	owner := normalizeEmail(ownerEmail)
	return s.filter(func(e *core.CalendarEvent) bool { return e.OwnerEmail == owner }), nil
}

// ListOnDate returns every event scheduled on the given calendar day
func (s *MemoryStore) ListOnDate(ctx context.Context, day time.Time) ([]*core.CalendarEvent, error) {
	want := day.Format(core.DateLayout)
	return s.filter(func(e *core.CalendarEvent) bool { return e.Day() == want }), nil
}

// Delete removes an event belonging to the owner
func (s *MemoryStore) Delete(ctx context.Context, id, ownerEmail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.events[id]
	if !ok || event.OwnerEmail != normalizeEmail(ownerEmail) {
		return ErrNotFound
	}
	delete(s.events, id)
	return nil
}

// Cleanup removes events past the retention window
func (s *MemoryStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := cutoffDay(s.now(), s.retention)
	expiredCount := 0
	for id, event := range s.events {
		if event.Day() < cutoff {
			delete(s.events, id)
			expiredCount++
		}
	}

	s.logger.Debug("Cleaned up expired events", zap.Int("expired_count", expiredCount))
	return nil
}

// Stop stops the background cleanup task
func (s *MemoryStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

func (s *MemoryStore) filter(match func(*core.CalendarEvent) bool) []*core.CalendarEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*core.CalendarEvent, 0)
	for _, event := range s.events {
		if match(event) {
			copied := *event
			out = append(out, &copied)
		}
	}
	sortEvents(out)
	return out
}

// startCleanupTask starts a background task to clean up expired events
func (s *MemoryStore) startCleanupTask() {
	ticker := time.NewTicker(s.cleanupFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.Cleanup(context.Background()); err != nil {
				s.logger.Error("Failed to clean up events", zap.Error(err))
			}
		case <-s.stopCh:
			return
		}
	}
}

// sortEvents orders by date, then creation time, then ID
func sortEvents(events []*core.CalendarEvent) {
	sort.Slice(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
