package reminder

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mikey/eco-scheduler/internal/core"
	"github.com/mikey/eco-scheduler/internal/ports"
	"go.uber.org/zap"
)

// DefaultSubject prefixes reminder subjects when none is configured
const DefaultSubject = "Eco Scheduler reminder"

// Report summarizes one reminder run
type Report struct {
	Success bool   `json:"success"`
	Count   int    `json:"count"`
	Sent    int    `json:"sent"`
	Error   string `json:"error,omitempty"`
}

// Config configures the reminder service
type Config struct {
	Subject  string
	Location *time.Location
	// Now overrides the wall clock; nil means time.Now
	Now func() time.Time
}

// Service mails owners about the disposal events scheduled for today
type Service struct {
	store    ports.EventStore
	notifier ports.Notifier
	logger   *zap.Logger
	subject  string
	location *time.Location
	now      func() time.Time

	mu      sync.Mutex
	lastRun string
}

// NewService creates a new reminder service
func NewService(store ports.EventStore, notifier ports.Notifier, logger *zap.Logger, cfg Config) *Service {
	if cfg.Subject == "" {
		cfg.Subject = DefaultSubject
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{
		store:    store,
		notifier: notifier,
		logger:   logger,
		subject:  cfg.Subject,
		location: cfg.Location,
		now:      cfg.Now,
	}
}

// SendDueReminders runs SendDailyReminders unless a successful run already
// covered today. The second return value reports whether a run happened.
func (s *Service) SendDueReminders(ctx context.Context) (Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := s.now().In(s.location).Format(core.DateLayout)
	if s.lastRun == day {
		s.logger.Debug("Reminders already sent today", zap.String("date", day))
		return Report{}, false
	}

	report := s.SendDailyReminders(ctx)
	if report.Success {
		s.lastRun = day
	}
	return report, true
}

// SendDailyReminders sends one reminder per event scheduled today. A failed
// delivery is logged and skipped; only a failed store lookup fails the run.
func (s *Service) SendDailyReminders(ctx context.Context) Report {
	s.logger.Info("Running waste disposal reminders")

	now := s.now().In(s.location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	events, err := s.store.ListOnDate(ctx, today)
	if err != nil {
		s.logger.Error("Failed to load today's events", zap.Error(err))
		return Report{Success: false, Error: err.Error()}
	}

	s.logger.Info("Found events for today",
		zap.String("date", today.Format(core.DateLayout)),
		zap.Int("count", len(events)))

	report := Report{Success: true, Count: len(events)}
	for _, event := range events {
		if err := ctx.Err(); err != nil {
			report.Success = false
			report.Error = err.Error()
			return report
		}

		if event.OwnerEmail == "" {
			s.logger.Warn("No email found for event, skipping notification",
				zap.String("event_id", event.ID))
			continue
		}

		msg, err := s.render(event, now.Year())
		if err != nil {
			s.logger.Error("Failed to render reminder",
				zap.String("event_id", event.ID),
				zap.Error(err))
			continue
		}

		if err := s.notifier.Send(ctx, msg); err != nil {
			s.logger.Error("Failed to send reminder",
				zap.String("event_id", event.ID),
				zap.String("to", event.OwnerEmail),
				zap.Error(err))
			continue
		}

		report.Sent++
		s.logger.Info("Notification sent",
			zap.String("event_id", event.ID),
			zap.String("to", event.OwnerEmail))
	}

	return report
}

func (s *Service) render(event *core.CalendarEvent, year int) (*ports.Message, error) {
	data := reminderData{
		Title: event.Title,
		Date:  event.Date.Format("Monday, January 2, 2006"),
		Year:  year,
	}

	var text, html bytes.Buffer
	if err := textTemplate.Execute(&text, data); err != nil {
		return nil, fmt.Errorf("failed to render text body: %w", err)
	}
	if err := htmlTemplate.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("failed to render html body: %w", err)
	}

	return &ports.Message{
		To:       event.OwnerEmail,
		Subject:  fmt.Sprintf("%s: %s scheduled today", s.subject, event.Title),
		TextBody: text.String(),
		HTMLBody: html.String(),
	}, nil
}
