package factory

import (
	"fmt"

	"github.com/mikey/eco-scheduler/internal/adapters/httpapi"
	"github.com/mikey/eco-scheduler/internal/config"
	"github.com/mikey/eco-scheduler/internal/ports"
	"go.uber.org/zap"
)

// FrontendFactory creates the frontend serving the scheduler
type FrontendFactory struct {
	cfg    *config.Config
	logger *zap.Logger
	deps   httpapi.Deps
}

// NewFrontendFactory creates a new frontend factory
func NewFrontendFactory(cfg *config.Config, logger *zap.Logger, deps httpapi.Deps) *FrontendFactory {
	return &FrontendFactory{
		cfg:    cfg,
		logger: logger,
		deps:   deps,
	}
}

// CreateFrontend creates the HTTP frontend from the server section
func (f *FrontendFactory) CreateFrontend() (ports.Frontend, error) {
	serverCfg, err := f.cfg.GetServer()
	if err != nil {
		return nil, fmt.Errorf("invalid server configuration: %w", err)
	}
	server, err := httpapi.NewServer(f.deps, serverCfg, f.logger)
	if err != nil {
		return nil, fmt.Errorf("invalid server configuration: %w", err)
	}
	return server, nil
}
