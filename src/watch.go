package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/contre95/beetwatch/src/features/config"
	"github.com/contre95/beetwatch/src/features/hosting"
	"github.com/contre95/beetwatch/src/features/importing"
	"github.com/contre95/beetwatch/src/features/metrics"
	"github.com/contre95/beetwatch/src/features/notifying"
	"github.com/contre95/beetwatch/src/infra/beets"
	"github.com/contre95/beetwatch/src/infra/beetsconf"
	"github.com/contre95/beetwatch/src/infra/database"
	"github.com/contre95/beetwatch/src/infra/tag"
	"github.com/contre95/beetwatch/src/infra/watcher"
	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
)

// ErrInstanceRunning is returned when another watcher holds the lock file.
var ErrInstanceRunning = errors.New("another beetwatch instance is already running")

func newWatchCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the unsorted folder until interrupted (default command)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), *configPath)
		},
	}
}

func runWatch(ctx context.Context, configPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfgManager, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	cfg := cfgManager.Get()
	if err := cfgManager.EnsureDirectories(); err != nil {
		return err
	}

	lock := flock.New(cfg.LockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("%w (lock %s)", ErrInstanceRunning, cfg.LockPath)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			slog.Warn("Failed to release lock", "path", cfg.LockPath, "error", err)
		}
	}()

	beetsConfig, err := beetsconf.Render(cfg.Beets.ConfigPath, cfg.Beets.RenderedConfigPath)
	if err != nil {
		return fmt.Errorf("failed to render beets config: %w", err)
	}

	var history importing.History
	if cfg.Database.Enabled {
		store, err := database.NewSqliteHistory(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer store.Close()
		history = store
	}

	notifier := notifying.NewService(cfg.Notify, buildSinks(cfg.Notify)...)
	defer notifier.Wait()

	recorder := metrics.NewRecorder()
	dispatcher := importing.NewDispatcher(
		beets.NewImporter(cfg.Beets, beetsConfig),
		importing.NewProcessedSet(),
		tag.NewTagReader(),
		history,
		recorder,
		notifier,
	)

	fsWatcher, err := watcher.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	session := importing.NewSession(
		fsWatcher,
		cfg.UnsortedPath,
		importing.NewDebouncer(cfg.Watch.Debounce),
		importing.NewClassifier(cfg.Watch.Extensions),
		dispatcher,
		cfg.Watch.MaxConcurrent,
		recorder,
	)

	if cfg.Server.Enabled {
		server := hosting.NewServer(cfgManager, dispatcher, session)
		go func() {
			if err := server.Start(); err != nil {
				slog.Error("Server stopped", "error", err)
			}
		}()
		slog.Info("Status server started", "port", cfg.Server.Port)
		defer func() {
			if err := server.Shutdown(); err != nil {
				slog.Error("Failed to shutdown server", "error", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Watcher started. Press Ctrl+C to shut down.", "unsorted", cfg.UnsortedPath, "beets_config", beetsConfig)
	return session.Run(ctx)
}

// buildSinks creates the enabled notification sinks. Sinks that fail to initialize are logged and left out.
func buildSinks(cfg config.Notify) []notifying.Sink {
	var sinks []notifying.Sink
	if cfg.Webhook.Enabled {
		webhook, err := notifying.NewWebhook(cfg.Webhook)
		if err != nil {
			slog.Error("Failed to initialize webhook notifications", "error", err)
		} else {
			sinks = append(sinks, webhook)
		}
	}
	if cfg.Telegram.Enabled {
		telegram, err := notifying.NewTelegram(cfg.Telegram)
		if err != nil {
			slog.Error("Failed to initialize Telegram notifications", "error", err)
		} else {
			sinks = append(sinks, telegram)
		}
	}
	return sinks
}
