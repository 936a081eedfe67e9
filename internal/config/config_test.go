package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	if got := cfg.GetLLM().Provider; got != "gemini" {
		t.Errorf("llm.provider = %q, want gemini", got)
	}

	sched, err := cfg.GetScheduler()
	if err != nil {
		t.Fatalf("GetScheduler failed: %v", err)
	}
	if sched.Location != time.UTC {
		t.Errorf("Location = %v, want UTC", sched.Location)
	}
	if sched.Timeout != 15*time.Second || sched.BatchCallTimeout != 5*time.Second || sched.ClassifyTimeout != 30*time.Second {
		t.Errorf("timeouts = %s/%s/%s", sched.Timeout, sched.BatchCallTimeout, sched.ClassifyTimeout)
	}
	if sched.BatchStrategy != "sampled" || sched.BatchConcurrency != 4 {
		t.Errorf("batch = %s/%d", sched.BatchStrategy, sched.BatchConcurrency)
	}

	store, err := cfg.GetStore()
	if err != nil {
		t.Fatalf("GetStore failed: %v", err)
	}
	if store.Type != "memory" || store.Retention != 90*24*time.Hour {
		t.Errorf("store = %+v", store)
	}

	server, err := cfg.GetServer()
	if err != nil {
		t.Fatalf("GetServer failed: %v", err)
	}
	if server.MaxUploadBytes != 10<<20 || server.RateLimitPerMin != 60 || len(server.TrustedProxies) != 0 {
		t.Errorf("server = %+v", server)
	}

	if got := cfg.GetSMTP().TLS; got != "starttls" {
		t.Errorf("smtp.tls = %q, want starttls", got)
	}

	reminders, err := cfg.GetReminders()
	if err != nil {
		t.Fatalf("GetReminders failed: %v", err)
	}
	if reminders.Enabled || reminders.Interval != 24*time.Hour {
		t.Errorf("reminders = %+v", reminders)
	}
}

func TestInvalidValues(t *testing.T) {
	v := NewEmptyViper()
	v.Set("scheduler.timezone", "Mars/Olympus_Mons")
	if _, err := NewFromViper(v).GetScheduler(); err == nil {
		t.Error("expected an error for an unknown timezone")
	}

	v = NewEmptyViper()
	v.Set("store.retention", "forever")
	if _, err := NewFromViper(v).GetStore(); err == nil {
		t.Error("expected an error for an invalid retention")
	}
}

func TestNewWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "llm:\n  provider: openai\nscheduler:\n  timezone: Europe/Berlin\n  batch:\n    strategy: engine\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewWithFile(path)
	if err != nil {
		t.Fatalf("NewWithFile failed: %v", err)
	}
	if got := cfg.GetLLM().Provider; got != "openai" {
		t.Errorf("provider = %q, want openai", got)
	}
	sched, err := cfg.GetScheduler()
	if err != nil {
		t.Fatalf("GetScheduler failed: %v", err)
	}
	if sched.Location.String() != "Europe/Berlin" || sched.BatchStrategy != "engine" {
		t.Errorf("scheduler = %+v", sched)
	}
	if sched.BatchConcurrency != 4 {
		t.Errorf("unset keys should keep defaults, concurrency = %d", sched.BatchConcurrency)
	}

	if _, err := NewWithFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing explicit config file")
	}
}
