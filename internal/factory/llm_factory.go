package factory

import (
	"fmt"

	"github.com/mikey/eco-scheduler/internal/adapters/bedrock"
	"github.com/mikey/eco-scheduler/internal/adapters/gemini"
	"github.com/mikey/eco-scheduler/internal/adapters/openai"
	"github.com/mikey/eco-scheduler/internal/config"
	"github.com/mikey/eco-scheduler/internal/ports"
	"go.uber.org/zap"
)

// LLMFactory creates generation clients
type LLMFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger) *LLMFactory {
	return &LLMFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateLLMClient creates a new generation client for the configured provider
func (f *LLMFactory) CreateLLMClient() (ports.LLMClient, error) {
	llmConfig := f.cfg.GetLLM()

	f.logger.Info("Creating LLM client", zap.String("provider", llmConfig.Provider))

	switch llmConfig.Provider {
	case "bedrock":
		return bedrock.NewFactory(f.cfg, f.logger).CreateClient()
	case "gemini":
		return gemini.NewFactory(f.cfg, f.logger).CreateClient()
	case "openai":
		return openai.NewFactory(f.cfg, f.logger).CreateClient()
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", llmConfig.Provider)
	}
}
