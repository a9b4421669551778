package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/ronaldsalkes/cvmaster/internal/config"
	"github.com/ronaldsalkes/cvmaster/internal/logging"
	"github.com/ronaldsalkes/cvmaster/internal/optimize"
)

// loadConfig resolves the effective configuration: file values when --config
// is given, defaults otherwise, with the verbose flag folded in.
func loadConfig() (config.Config, error) {
	defaults := config.Defaults()
	if configPath == "" {
		defaults.Verbose = verbose
		return defaults, nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	merged := cfg.MergeWithDefaults(defaults)
	if verbose {
		merged.Verbose = true
	}
	return merged, nil
}

func newLogger(cfg config.Config) logging.Logger {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return logging.NewSlogLogger(slog.New(handler))
}

// newCollaborator picks the optimization backend: the remote endpoint when
// one is configured, the local stub otherwise.
func newCollaborator(cfg config.Config) (optimize.Collaborator, error) {
	if cfg.CollaboratorURL != "" {
		return optimize.NewHTTPClient(cfg.CollaboratorURL, cfg.CollaboratorToken)
	}
	return optimize.StubEngine{}, nil
}

func autosaveWindow(cfg config.Config) time.Duration {
	return time.Duration(cfg.AutosaveWindowMS) * time.Millisecond
}
