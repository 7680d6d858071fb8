package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/adapters/git"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/adapters/notification"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/adapters/remote"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/adapters/storage"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/config"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/focus"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/ports"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/services"
)

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	config  *config.Config
	tracker ports.Tracker
	history ports.OverviewProvider
	// storage is nil when talking to a remote server.
	storage  ports.Storage
	remote   *remote.Client
	notifier *notification.Notifier
	logger   *log.Logger
	logFile  *os.File
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// errNeedsLocal is returned by commands that only make sense next to the
// database.
var errNeedsLocal = errors.New("this command needs local storage; unset remote.url or drop --remote")

// initializeServices sets up all the required services and adapters.
func initializeServices() error {
	app = appDeps{}

	var err error
	if configPath != "" {
		app.config, err = config.LoadFrom(configPath)
	} else {
		app.config, err = config.Load()
	}
	if err != nil {
		// If config loading fails, use defaults
		app.config = config.DefaultConfig()
	}
	if remoteURL != "" {
		app.config.Remote.URL = remoteURL
	}

	if dbPath == "" {
		dbPath = config.GetDBPath(app.config)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	app.logger, app.logFile = openLog(filepath.Join(filepath.Dir(dbPath), "octo.log"))
	app.notifier = notification.New(&app.config.Notifications, app.config.Theme.IconApp)

	if url := app.config.Remote.URL; url != "" {
		app.remote = remote.NewClient(url, time.Duration(app.config.Remote.Timeout))
		app.tracker = app.remote
		app.history = app.remote
		return nil
	}

	app.storage, err = storage.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	tracker := services.NewTrackerService(app.storage, git.NewDetector(), nil)
	tracker.SetLogger(app.logger)
	tracker.SetImpulsiveness(app.config.Scoring.Impulsiveness)
	if wd, err := os.Getwd(); err == nil {
		tracker.SetWorkingDir(wd)
	}
	app.tracker = tracker
	app.history = services.NewStateService(app.storage)

	return nil
}

// openLog appends diagnostics to path. The full-screen UI owns the terminal,
// so nothing is written to stderr.
func openLog(path string) (*log.Logger, *os.File) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return log.New(io.Discard, "", 0), nil
	}
	return log.New(f, "octo ", log.LstdFlags), f
}

// cleanupServices closes all resources.
func cleanupServices() error {
	var err error
	if app.storage != nil {
		err = app.storage.Close()
		app.storage = nil
	}
	if app.logFile != nil {
		_ = app.logFile.Close()
		app.logFile = nil
	}
	return err
}

func (a appDeps) theme() config.ThemeConfig {
	if a.config == nil {
		return config.DefaultThemeConfig()
	}
	return a.config.Theme
}

// focusOptions maps the config onto the focus view.
func focusOptions() focus.Options {
	return focus.Options{
		IdleThreshold:  app.config.Focus.IdleSeconds(),
		OverrunMinutes: app.config.Focus.OverrunMinutes,
		AutoStart:      app.config.Focus.AutoStart,
		Logger:         app.logger,
		Notifier:       app.notifier,
	}
}

// setupSignalHandler sets up a context that cancels on interrupt signals.
func setupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	return ctx
}
