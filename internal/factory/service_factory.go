package factory

import (
	"fmt"

	"github.com/mikey/eco-scheduler/internal/columns"
	"github.com/mikey/eco-scheduler/internal/config"
	"github.com/mikey/eco-scheduler/internal/core"
	"github.com/mikey/eco-scheduler/internal/ports"
	"github.com/mikey/eco-scheduler/internal/reminder"
	"github.com/mikey/eco-scheduler/internal/schedule"
	"github.com/mikey/eco-scheduler/internal/utils"
	"go.uber.org/zap"
)

// ServiceFactory creates the scheduling services from the scheduler section
type ServiceFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewServiceFactory creates a new service factory
func NewServiceFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *ServiceFactory {
	return &ServiceFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateEngine creates the single-item date inference engine
func (f *ServiceFactory) CreateEngine(client ports.LLMClient) (*core.DateInferenceEngine, error) {
	schedCfg, err := f.cfg.GetScheduler()
	if err != nil {
		return nil, err
	}
	return core.NewDateInferenceEngine(client, f.logger, f.textProcessor, core.EngineConfig{
		Timeout:  schedCfg.Timeout,
		Location: schedCfg.Location,
	}), nil
}

// CreateBatchProcessor creates the batch processor using the configured strategy
func (f *ServiceFactory) CreateBatchProcessor(engine *core.DateInferenceEngine) (*core.BatchDateProcessor, error) {
	schedCfg, err := f.cfg.GetScheduler()
	if err != nil {
		return nil, err
	}
	strategy, err := core.ParseStrategy(schedCfg.BatchStrategy)
	if err != nil {
		return nil, fmt.Errorf("invalid batch configuration: %w", err)
	}
	return core.NewBatchDateProcessor(engine, f.logger, core.BatchConfig{
		Strategy:    strategy,
		Concurrency: schedCfg.BatchConcurrency,
		CallTimeout: schedCfg.BatchCallTimeout,
	}), nil
}

// CreateClassifier creates the waste classifier
func (f *ServiceFactory) CreateClassifier(client ports.LLMClient) (*core.WasteClassifier, error) {
	schedCfg, err := f.cfg.GetScheduler()
	if err != nil {
		return nil, err
	}
	return core.NewWasteClassifier(client, f.logger, f.textProcessor, core.GenerationOptions{}, schedCfg.ClassifyTimeout), nil
}

// CreateResolver creates the waste-name column resolver
func (f *ServiceFactory) CreateResolver() core.ColumnResolver {
	return columns.NewWasteNameResolver(f.logger)
}

// CreateScheduler creates the calendar scheduler
func (f *ServiceFactory) CreateScheduler(store ports.EventStore) *schedule.Scheduler {
	return schedule.NewScheduler(store, f.textProcessor, f.logger)
}

// CreateReminderService creates the daily reminder service
func (f *ServiceFactory) CreateReminderService(store ports.EventStore, notifier ports.Notifier) (*reminder.Service, error) {
	schedCfg, err := f.cfg.GetScheduler()
	if err != nil {
		return nil, err
	}
	remCfg, err := f.cfg.GetReminders()
	if err != nil {
		return nil, err
	}
	return reminder.NewService(store, notifier, f.logger, reminder.Config{
		Subject:  remCfg.Subject,
		Location: schedCfg.Location,
	}), nil
}
