package factory

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/mikey/eco-scheduler/internal/adapters/store"
	"github.com/mikey/eco-scheduler/internal/config"
	"github.com/mikey/eco-scheduler/internal/core"
	"go.uber.org/zap"
)

func testConfig(set map[string]any) *config.Config {
	v := config.NewEmptyViper()
	for k, val := range set {
		v.Set(k, val)
	}
	return config.NewFromViper(v)
}

func TestStoreFactory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "events.db")

	tests := []struct {
		name    string
		set     map[string]any
		wantErr string
	}{
		{name: "memory", set: map[string]any{"store.type": "memory"}},
		{name: "sqlite", set: map[string]any{"store.type": "sqlite", "store.sqlite_path": dbPath}},
		{name: "unknown", set: map[string]any{"store.type": "redis"}, wantErr: "unsupported store type"},
		{name: "bad retention", set: map[string]any{"store.retention": "soon"}, wantErr: "invalid store configuration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewStoreFactory(testConfig(tt.set), zap.NewNop()).CreateEventStore()
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateEventStore failed: %v", err)
			}
			s.Stop()
		})
	}
}

func TestStoreFactory_MemoryType(t *testing.T) {
	s, err := NewStoreFactory(testConfig(nil), zap.NewNop()).CreateEventStore()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Stop()
	if _, ok := s.(*store.MemoryStore); !ok {
		t.Errorf("default store = %T, want *store.MemoryStore", s)
	}
}

func TestLLMFactory_Errors(t *testing.T) {
	tests := []struct {
		provider string
		wantErr  string
	}{
		{"mystery", "unsupported LLM provider"},
		{"gemini", "API key"},
		{"openai", "API key"},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			_, err := NewLLMFactory(testConfig(map[string]any{"llm.provider": tt.provider}), zap.NewNop()).CreateLLMClient()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestNotifierFactory(t *testing.T) {
	tests := []struct {
		mode    string
		wantErr bool
	}{
		{mode: "starttls"},
		{mode: "TLS"},
		{mode: "none"},
		{mode: ""},
		{mode: "ssl3", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			n, err := NewNotifierFactory(testConfig(map[string]any{"smtp.tls": tt.mode}), zap.NewNop()).CreateNotifier()
			if tt.wantErr {
				if err == nil || !strings.Contains(err.Error(), "unknown SMTP TLS mode") {
					t.Fatalf("err = %v, want unknown TLS mode", err)
				}
				return
			}
			if err != nil || n == nil {
				t.Fatalf("CreateNotifier = %v, %v", n, err)
			}
		})
	}
}

func TestServiceFactory(t *testing.T) {
	cfg := testConfig(map[string]any{
		"scheduler.batch.strategy":    "engine",
		"scheduler.batch.concurrency": 2,
	})
	logger := zap.NewNop()
	tp := NewTextProcessorFactory(cfg, logger).CreateTextProcessor()
	f := NewServiceFactory(cfg, logger, tp)

	engine, err := f.CreateEngine(nil)
	if err != nil {
		t.Fatalf("CreateEngine failed: %v", err)
	}
	batch, err := f.CreateBatchProcessor(engine)
	if err != nil {
		t.Fatalf("CreateBatchProcessor failed: %v", err)
	}
	if batch.Strategy() != core.StrategyEngine {
		t.Errorf("strategy = %s", batch.Strategy())
	}

	bad := NewServiceFactory(testConfig(map[string]any{"scheduler.batch.strategy": "guess"}), logger, tp)
	if _, err := bad.CreateBatchProcessor(engine); err == nil {
		t.Error("expected error for unknown strategy")
	}
	badTZ := NewServiceFactory(testConfig(map[string]any{"scheduler.timezone": "Mars/Olympus"}), logger, tp)
	if _, err := badTZ.CreateEngine(nil); err == nil {
		t.Error("expected error for unknown timezone")
	}
}
