package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Gamfluent/Nag-Me/internal/alert"
	"github.com/Gamfluent/Nag-Me/internal/config"
	"github.com/Gamfluent/Nag-Me/internal/notify"
	"github.com/Gamfluent/Nag-Me/internal/storage"
	"github.com/Gamfluent/Nag-Me/internal/store"
	"github.com/Gamfluent/Nag-Me/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "nagme failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.RuntimeConfigFromEnv(config.DefaultRuntimeConfig())
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	logger, err := newLogger(cfg.LogFilePath())
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	st, closeStorage, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer closeStorage()

	engine := alert.NewEngine(cfg.AlertBuffer)
	engine.Start()
	defer engine.Stop()

	permission := notify.PermissionGranted
	if !cfg.NotificationsGranted {
		permission = notify.PermissionDenied
		logger.Info("notifications disabled, alerts will not be scheduled")
	}
	scheduler := notify.NewScheduler(engine, permission, logger)

	tasks := store.NewTaskStore(st, scheduler, logger)
	ctx := context.Background()
	if err := tasks.Load(ctx); err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	// Startup recovery: rebuild the full task-to-alert mapping after the gap
	// since the last run.
	if err := tasks.RescheduleAll(ctx); err != nil {
		logger.Error("startup bulk resync failed", zap.Error(err))
	}

	var notifier update.DesktopNotifier = update.NoopDesktopNotifier{}
	if cfg.DesktopNotifications {
		notifier = update.ExecDesktopNotifier{}
	}
	model := update.NewModel(update.Options{
		Store:          tasks,
		Alerts:         engine.C(),
		DesktopEnabled: cfg.DesktopNotifications,
		Notifier:       notifier,
		ResyncEvery:    time.Duration(cfg.ResyncMinutes) * time.Minute,
	})

	program := tea.NewProgram(model)
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}

func newLogger(path string) (*zap.Logger, error) {
	logCfg := zap.NewProductionConfig()
	logCfg.OutputPaths = []string{path}
	logCfg.ErrorOutputPaths = []string{path}
	return logCfg.Build()
}

func openStorage(cfg config.RuntimeConfig) (storage.Store, func(), error) {
	switch cfg.Storage {
	case config.StorageSQLite:
		st, err := storage.OpenSQLite(cfg.DatabasePath())
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite storage: %w", err)
		}
		return st, func() { _ = st.Close() }, nil
	default:
		return storage.NewFileStore(cfg.TaskFilePath()), func() {}, nil
	}
}
