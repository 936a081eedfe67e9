package factory

import (
	"fmt"

	"github.com/mikey/eco-scheduler/internal/adapters/notify"
	"github.com/mikey/eco-scheduler/internal/config"
	"github.com/mikey/eco-scheduler/internal/ports"
	"go.uber.org/zap"
)

// NotifierFactory creates reminder notifiers
type NotifierFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewNotifierFactory creates a new notifier factory
func NewNotifierFactory(cfg *config.Config, logger *zap.Logger) *NotifierFactory {
	return &NotifierFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateNotifier creates an SMTP notifier from the smtp section
func (f *NotifierFactory) CreateNotifier() (ports.Notifier, error) {
	smtpCfg := f.cfg.GetSMTP()
	if smtpCfg.Host == "" {
		f.logger.Warn("No SMTP host configured, reminders will fail to send")
	}
	notifier, err := notify.NewSMTPNotifier(smtpCfg, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP notifier: %w", err)
	}
	return notifier, nil
}
