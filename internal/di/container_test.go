package di

import (
	"testing"

	"github.com/mikey/eco-scheduler/internal/adapters/cli"
	"github.com/mikey/eco-scheduler/internal/core"
	"github.com/mikey/eco-scheduler/internal/ports"
)

func TestCreateConfigFromFlags(t *testing.T) {
	cfg := createConfigFromFlags(&CLIFlags{
		Provider:      "openai",
		OpenAIAPIKey:  "sk-test",
		OpenAIBaseURL: "http://localhost:11434/v1",
		MaxTokens:     256,
		Timezone:      "Europe/Berlin",
		Strategy:      "engine",
		Concurrency:   2,
	})

	if got := cfg.GetOpenAI(); got.APIKey != "sk-test" || got.BaseURL != "http://localhost:11434/v1" || got.MaxTokens != 256 {
		t.Errorf("openai config = %+v", got)
	}
	sched, err := cfg.GetScheduler()
	if err != nil {
		t.Fatal(err)
	}
	if sched.Location.String() != "Europe/Berlin" || sched.BatchStrategy != "engine" || sched.BatchConcurrency != 2 {
		t.Errorf("scheduler config = %+v", sched)
	}
}

func TestBuildCLIContainer(t *testing.T) {
	container, err := BuildCLIContainer(&CLIFlags{
		Provider:     "openai",
		OpenAIAPIKey: "sk-test",
		Timezone:     "UTC",
		Strategy:     "sampled",
	})
	if err != nil {
		t.Fatalf("BuildCLIContainer failed: %v", err)
	}

	err = container.Invoke(func(runner *cli.Runner, batch *core.BatchDateProcessor) {
		if runner == nil {
			t.Error("nil runner")
		}
		if batch.Strategy() != core.StrategySampled {
			t.Errorf("strategy = %s", batch.Strategy())
		}
	})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
}

func TestBuildCLIContainer_MissingKey(t *testing.T) {
	container, err := BuildCLIContainer(&CLIFlags{Provider: "gemini", Timezone: "UTC"})
	if err != nil {
		t.Fatal(err)
	}
	if err := container.Invoke(func(*cli.Runner) {}); err == nil {
		t.Error("expected an error without a Gemini API key")
	}
}

func TestBuildContainer(t *testing.T) {
	t.Setenv("ECO_SCHEDULER_LLM_PROVIDER", "openai")
	t.Setenv("ECO_SCHEDULER_OPENAI_API_KEY", "sk-test")
	t.Setenv("ECO_SCHEDULER_LOGGING_LEVEL", "error")

	container, err := BuildContainer()
	if err != nil {
		t.Fatalf("BuildContainer failed: %v", err)
	}

	err = container.Invoke(func(frontend ports.Frontend, store ports.EventStore, client ports.LLMClient) {
		defer store.Stop()
		if frontend == nil || client == nil {
			t.Error("missing dependencies")
		}
	})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
}
