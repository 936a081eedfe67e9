package ports

import (
	"context"
	"time"

	"github.com/mikey/eco-scheduler/internal/core"
)

// EventStore defines the interface for persisting scheduled disposal events
type EventStore interface {
	// Create stores a new event, assigning an ID and creation time when missing
	Create(ctx context.Context, event *core.CalendarEvent) error

	// ListByOwner returns the owner's events ordered by date
	ListByOwner(ctx context.Context, ownerEmail string) ([]*core.CalendarEvent, error)

	// ListOnDate returns every event scheduled on the given calendar day
	ListOnDate(ctx context.Context, day time.Time) ([]*core.CalendarEvent, error)

	// Delete removes an event belonging to the owner
	Delete(ctx context.Context, id, ownerEmail string) error

	// Cleanup removes events past the retention window
	Cleanup(ctx context.Context) error

	// Stop stops background cleanup and releases resources
	Stop()
}
