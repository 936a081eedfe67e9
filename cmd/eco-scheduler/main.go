package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mikey/eco-scheduler/internal/config"
	"github.com/mikey/eco-scheduler/internal/di"
	"github.com/mikey/eco-scheduler/internal/ports"
	"github.com/mikey/eco-scheduler/internal/reminder"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	cfg *config.Config,
	logger *zap.Logger,
	frontend ports.Frontend,
	llmClient ports.LLMClient,
	store ports.EventStore,
	reminders *reminder.Service,
) error {
	defer logger.Sync()

	remCfg, err := cfg.GetReminders()
	if err != nil {
		return err
	}

	// Start the frontend
	if err := frontend.Start(); err != nil {
		logger.Error("Failed to start frontend", zap.Error(err))
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	done := make(chan struct{})
	if remCfg.Enabled {
		go runReminders(ctx, logger, reminders, remCfg.Interval, done)
	} else {
		close(done)
	}

	<-ctx.Done()
	logger.Info("Shutting down...")

	// Stop the frontend, then release the client and the store
	err = multierr.Combine(
		frontend.Stop(),
		llmClient.Close(),
	)
	<-done
	store.Stop()

	if err != nil {
		logger.Error("Errors during shutdown", zap.Error(err))
	}
	logger.Info("Shutdown complete")
	return nil
}

// runReminders checks for due reminders on every tick. Nothing is sent at
// startup, so a restart does not repeat the day's round.
func runReminders(ctx context.Context, logger *zap.Logger, reminders *reminder.Service, interval time.Duration, done chan<- struct{}) {
	defer close(done)
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	logger.Info("Reminder schedule started", zap.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		report, ran := reminders.SendDueReminders(ctx)
		if !ran {
			continue
		}
		logger.Info("Reminder run finished",
			zap.Bool("success", report.Success),
			zap.Int("count", report.Count),
			zap.Int("sent", report.Sent))
	}
}
