package store

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mikey/eco-scheduler/internal/core"
)

var (
	// ErrNotFound is returned when an event does not exist for the owner
	ErrNotFound = errors.New("event not found")
	// ErrInvalidEvent is returned when an event lacks a title, date or owner
	ErrInvalidEvent = errors.New("event requires title, date and owner email")
)

// DefaultRetention is how long past events are kept
const DefaultRetention = 90 * 24 * time.Hour

// prepare validates an event and fills in its ID, creation time and calendar day
func prepare(event *core.CalendarEvent, now time.Time) error {
	event.Title = strings.TrimSpace(event.Title)
	event.OwnerEmail = normalizeEmail(event.OwnerEmail)
	if event.Title == "" || event.OwnerEmail == "" || event.Date.IsZero() {
		return ErrInvalidEvent
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now.UTC().Truncate(time.Second)
	}
	event.Date = dayOf(event.Date)
	return nil
}

// dayOf returns midnight UTC of the calendar day t falls on in its own location
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// cutoffDay is the first calendar day still retained
func cutoffDay(now time.Time, retention time.Duration) string {
	return dayOf(now.UTC().Add(-retention)).Format(core.DateLayout)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
