package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"duely/internal/config"
	"duely/internal/logging"
	"duely/internal/storage"
)

// app bundles what every command needs: config, logger and the store.
type app struct {
	cfg     config.Config
	logger  *log.Logger
	store   *storage.Store
	closers []io.Closer
}

// openApp loads the config and opens storage. With logToFile the logger
// writes to the configured log file, leaving the terminal to the TUI.
func openApp(logToFile bool) (*app, error) {
	path := configPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	a := &app{cfg: cfg}
	if logToFile {
		logger, f, err := logging.OpenFile(cfg.LogPath, cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		a.logger = logger
		a.closers = append(a.closers, f)
	} else {
		a.logger = logging.New(os.Stderr, cfg.LogLevel)
	}

	db, err := storage.Open(cfg.DBPath, a.logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	a.closers = append(a.closers, db)
	a.store = storage.NewStore(db, storage.WithLogger(a.logger))

	a.logger.Debug("config loaded", "path", path, "db", cfg.DBPath)
	return a, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && a.logger != nil {
			a.logger.Warn("close failed", "err", err)
		}
	}
	a.closers = nil
}
