package di

import (
	"go.uber.org/dig"

	"github.com/mikey/eco-scheduler/internal/adapters/httpapi"
	"github.com/mikey/eco-scheduler/internal/config"
	"github.com/mikey/eco-scheduler/internal/core"
	"github.com/mikey/eco-scheduler/internal/factory"
	"github.com/mikey/eco-scheduler/internal/logging"
	"github.com/mikey/eco-scheduler/internal/ports"
	"github.com/mikey/eco-scheduler/internal/reminder"
	"github.com/mikey/eco-scheduler/internal/schedule"
	"github.com/mikey/eco-scheduler/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
// for the scheduler daemon
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := provideServices(container); err != nil {
		return nil, err
	}

	// Register event store
	if err := container.Provide(func(f *factory.StoreFactory) (ports.EventStore, error) {
		return f.CreateEventStore()
	}); err != nil {
		return nil, err
	}

	// Register notifier
	if err := container.Provide(func(f *factory.NotifierFactory) (ports.Notifier, error) {
		return f.CreateNotifier()
	}); err != nil {
		return nil, err
	}

	// Register scheduler and reminders
	if err := container.Provide(func(f *factory.ServiceFactory, store ports.EventStore) *schedule.Scheduler {
		return f.CreateScheduler(store)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.ServiceFactory, store ports.EventStore, notifier ports.Notifier) (*reminder.Service, error) {
		return f.CreateReminderService(store, notifier)
	}); err != nil {
		return nil, err
	}

	// Register frontend
	if err := container.Provide(func(
		engine *core.DateInferenceEngine,
		batch *core.BatchDateProcessor,
		classifier *core.WasteClassifier,
		resolver core.ColumnResolver,
		scheduler *schedule.Scheduler,
		reminders *reminder.Service,
	) httpapi.Deps {
		return httpapi.Deps{
			Engine:     engine,
			Batch:      batch,
			Classifier: classifier,
			Resolver:   resolver,
			Scheduler:  scheduler,
			Reminders:  reminders,
		}
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewFrontendFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.FrontendFactory) (ports.Frontend, error) {
		return f.CreateFrontend()
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// provideServices registers the factories, the generation client and the
// core services shared by the daemon and the CLI
func provideServices(container *dig.Container) error {
	// Register factories
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewNotifierFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewServiceFactory); err != nil {
		return err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return err
	}

	// Register LLM client
	if err := container.Provide(func(f *factory.LLMFactory) (ports.LLMClient, error) {
		return f.CreateLLMClient()
	}); err != nil {
		return err
	}

	// Register core services
	if err := container.Provide(func(f *factory.ServiceFactory, client ports.LLMClient) (*core.DateInferenceEngine, error) {
		return f.CreateEngine(client)
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.ServiceFactory, engine *core.DateInferenceEngine) (*core.BatchDateProcessor, error) {
		return f.CreateBatchProcessor(engine)
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.ServiceFactory, client ports.LLMClient) (*core.WasteClassifier, error) {
		return f.CreateClassifier(client)
	}); err != nil {
		return err
	}
	return container.Provide(func(f *factory.ServiceFactory) core.ColumnResolver {
		return f.CreateResolver()
	})
}
