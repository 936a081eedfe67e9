package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mikey/eco-scheduler/internal/core"
	"github.com/mikey/eco-scheduler/internal/ports"
	"github.com/mikey/eco-scheduler/internal/utils"
	"go.uber.org/zap"
)

var (
	// ErrOwnerRequired is returned when no owner email is given
	ErrOwnerRequired = errors.New("email is required")
	// ErrInvalidDate is returned when an event date is not YYYY-MM-DD
	ErrInvalidDate = errors.New("date must be formatted as YYYY-MM-DD")
)

// Scheduler turns inferred disposal dates into calendar events
type Scheduler struct {
	store         ports.EventStore
	textProcessor *utils.TextProcessor
	logger        *zap.Logger
	now           func() time.Time
}

// NewScheduler creates a new scheduler backed by the given event store
func NewScheduler(store ports.EventStore, textProcessor *utils.TextProcessor, logger *zap.Logger) *Scheduler {
	if textProcessor == nil {
		textProcessor = utils.NewTextProcessor(logger, 0)
	}
	return &Scheduler{
		store:         store,
		textProcessor: textProcessor,
		logger:        logger,
		now:           time.Now,
	}
}

// AddResults stores every successful batch row as an event for the owner
// and returns how many were added. Failed rows are skipped.
func (s *Scheduler) AddResults(ctx context.Context, owner string, results []core.InferenceResult) (int, error) {
	if strings.TrimSpace(owner) == "" {
		return 0, ErrOwnerRequired
	}

	added := 0
	for _, r := range results {
		if r.Failed() || r.DisposalDate == "" {
			continue
		}
		if _, err := s.AddEvent(ctx, owner, r.WasteName, r.DisposalDate); err != nil {
			return added, fmt.Errorf("failed to schedule %q: %w", r.WasteName, err)
		}
		added++
	}

	s.logger.Info("Scheduled batch results",
		zap.String("owner", owner),
		zap.Int("rows", len(results)),
		zap.Int("added", added))
	return added, nil
}

// AddEvent stores a single event dated YYYY-MM-DD
func (s *Scheduler) AddEvent(ctx context.Context, owner, title, date string) (*core.CalendarEvent, error) {
	if strings.TrimSpace(owner) == "" {
		return nil, ErrOwnerRequired
	}
	day, err := time.Parse(core.DateLayout, strings.TrimSpace(date))
	if err != nil {
		return nil, ErrInvalidDate
	}

	event := &core.CalendarEvent{
		Title:      s.textProcessor.Title(title),
		Date:       day,
		OwnerEmail: owner,
	}
	if err := s.store.Create(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Debug("Event created",
		zap.String("id", event.ID),
		zap.String("title", event.Title),
		zap.String("date", event.Day()))
	return event, nil
}

// Events lists the owner's events ordered by date
func (s *Scheduler) Events(ctx context.Context, owner string) ([]*core.CalendarEvent, error) {
	if strings.TrimSpace(owner) == "" {
		return nil, ErrOwnerRequired
	}
	return s.store.ListByOwner(ctx, owner)
}

// Remove deletes one of the owner's events
func (s *Scheduler) Remove(ctx context.Context, id, owner string) error {
	if strings.TrimSpace(owner) == "" {
		return ErrOwnerRequired
	}
	return s.store.Delete(ctx, id, owner)
}
