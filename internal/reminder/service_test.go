package reminder

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mikey/eco-scheduler/internal/adapters/store"
	"github.com/mikey/eco-scheduler/internal/core"
	"github.com/mikey/eco-scheduler/internal/ports"
	"go.uber.org/zap"
)

type fakeNotifier struct {
	mu     sync.Mutex
	sent   []*ports.Message
	failTo string
}

func (f *fakeNotifier) Send(_ context.Context, msg *ports.Message) error {
	if msg.To == f.failTo {
		return errors.New("mailbox unavailable")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return nil
}

type failingStore struct {
	ports.EventStore
}

func (failingStore) ListOnDate(context.Context, time.Time) ([]*core.CalendarEvent, error) {
	return nil, errors.New("database is locked")
}

func date(s string) time.Time {
	d, _ := time.Parse(core.DateLayout, s)
	return d
}

func TestSendDailyReminders(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore(zap.NewNop(), 0, 0)
	defer st.Stop()

	for _, e := range []*core.CalendarEvent{
		{Title: "Batteries", Date: date("2025-04-21"), OwnerEmail: "ann@example.com"},
		{Title: "Glass <Jar>", Date: date("2025-04-21"), OwnerEmail: "bob@example.com"},
		{Title: "Paper", Date: date("2025-04-21"), OwnerEmail: "broken@example.com"},
		{Title: "Cardboard", Date: date("2025-04-22"), OwnerEmail: "ann@example.com"},
	} {
		if err := st.Create(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	notifier := &fakeNotifier{failTo: "broken@example.com"}
	// 23:30 UTC on the 20th is already the 21st in Berlin
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatal(err)
	}
	svc := NewService(st, notifier, zap.NewNop(), Config{
		Location: berlin,
		Now:      func() time.Time { return time.Date(2025, time.April, 20, 23, 30, 0, 0, time.UTC) },
	})

	report := svc.SendDailyReminders(ctx)
	if !report.Success || report.Count != 3 || report.Sent != 2 {
		t.Fatalf("report = %+v, want success with count 3 sent 2", report)
	}

	var glass *ports.Message
	for _, m := range notifier.sent {
		if m.To == "bob@example.com" {
			glass = m
		}
	}
	if glass == nil {
		t.Fatal("no reminder sent to bob@example.com")
	}
	if glass.Subject != "Eco Scheduler reminder: Glass <Jar> scheduled today" {
		t.Errorf("subject = %q", glass.Subject)
	}
	if !strings.Contains(glass.TextBody, "Monday, April 21, 2025") {
		t.Errorf("text body missing date:\n%s", glass.TextBody)
	}
	if !strings.Contains(glass.HTMLBody, "Glass &lt;Jar&gt;") {
		t.Errorf("html body does not escape title:\n%s", glass.HTMLBody)
	}
}

func TestSendDailyReminders_NoEvents(t *testing.T) {
	st := store.NewMemoryStore(zap.NewNop(), 0, 0)
	defer st.Stop()

	notifier := &fakeNotifier{}
	report := NewService(st, notifier, zap.NewNop(), Config{}).SendDailyReminders(context.Background())
	if !report.Success || report.Count != 0 || report.Sent != 0 {
		t.Errorf("report = %+v", report)
	}
}

func TestSendDailyReminders_StoreFailure(t *testing.T) {
	report := NewService(failingStore{}, &fakeNotifier{}, zap.NewNop(), Config{}).SendDailyReminders(context.Background())
	if report.Success || !strings.Contains(report.Error, "locked") {
		t.Errorf("report = %+v", report)
	}
}

type flakyStore struct {
	ports.EventStore
	fail bool
}

func (f *flakyStore) ListOnDate(ctx context.Context, day time.Time) ([]*core.CalendarEvent, error) {
	if f.fail {
		return nil, errors.New("database is locked")
	}
	return f.EventStore.ListOnDate(ctx, day)
}

func TestSendDueReminders_OncePerDay(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore(zap.NewNop(), 0, 0)
	defer mem.Stop()
	for _, d := range []string{"2025-04-21", "2025-04-22"} {
		if err := mem.Create(ctx, &core.CalendarEvent{Title: "Batteries", Date: date(d), OwnerEmail: "ann@example.com"}); err != nil {
			t.Fatal(err)
		}
	}

	st := &flakyStore{EventStore: mem, fail: true}
	notifier := &fakeNotifier{}
	now := time.Date(2025, time.April, 21, 8, 0, 0, 0, time.UTC)
	svc := NewService(st, notifier, zap.NewNop(), Config{Now: func() time.Time { return now }})

	// a failed run does not count as today's run
	if report, ran := svc.SendDueReminders(ctx); !ran || report.Success {
		t.Fatalf("first run = %+v, %v, want a failed run", report, ran)
	}

	st.fail = false
	if report, ran := svc.SendDueReminders(ctx); !ran || report.Sent != 1 {
		t.Fatalf("second run = %+v, %v, want one reminder sent", report, ran)
	}

	now = now.Add(6 * time.Hour)
	if _, ran := svc.SendDueReminders(ctx); ran {
		t.Error("reminders ran twice on the same day")
	}
	if len(notifier.sent) != 1 {
		t.Errorf("sent %d reminders on 2025-04-21, want 1", len(notifier.sent))
	}

	now = now.Add(24 * time.Hour)
	if report, ran := svc.SendDueReminders(ctx); !ran || report.Sent != 1 {
		t.Errorf("next day run = %+v, %v, want one reminder sent", report, ran)
	}
	if len(notifier.sent) != 2 {
		t.Errorf("total sent = %d, want 2", len(notifier.sent))
	}
}
