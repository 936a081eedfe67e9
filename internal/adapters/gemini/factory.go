package gemini

import (
	"fmt"

	"github.com/mikey/eco-scheduler/internal/config"
	"github.com/mikey/eco-scheduler/internal/core"
	"github.com/mikey/eco-scheduler/internal/ports"
	"go.uber.org/zap"
)

// Factory creates new instances of GeminiClient
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFactory creates a new factory for GeminiClient instances
func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateClient creates a new GeminiClient
func (f *Factory) CreateClient() (ports.LLMClient, error) {
	geminiCfg := f.cfg.GetGemini()
	if geminiCfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := NewGeminiClient(
		geminiCfg.APIKey,
		geminiCfg.ModelName,
		core.GenerationOptions{
			Temperature:     geminiCfg.Temperature,
			MaxOutputTokens: geminiCfg.MaxTokens,
			TopP:            geminiCfg.TopP,
		},
		f.logger,
	)
	if err != nil {
		return nil, err
	}
	return client, nil
}
