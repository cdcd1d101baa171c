// Package commands implements the catmip CLI commands.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/cat-mip/cat-mip/config"
	"github.com/cat-mip/cat-mip/registry"
)

// App holds the shared state for all commands: the resolved
// configuration and the logger built from the root flags.
type App struct {
	// ConfigPath is the explicit --config flag value, if any
	ConfigPath string
	// LogLevel is the --log-level flag value
	LogLevel string

	cfg    *config.Config
	logger *slog.Logger
}

// Setup configures logging and loads configuration. It runs once as
// the root command's PersistentPreRunE.
func (a *App) Setup() error {
	level := slog.LevelInfo
	switch strings.ToLower(a.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	a.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)

	if a.ConfigPath != "" {
		cfg, err := config.LoadFromFile(a.ConfigPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		a.cfg = cfg
		return nil
	}

	loader := config.NewLoader(a.logger)
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg
	return nil
}

// Config returns the resolved configuration.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// loadRegistry loads the term registry from the configured standards tree.
func (a *App) loadRegistry() (*registry.Registry, error) {
	reg, err := registry.Load(registry.LoadOptions{
		StandardsPath: a.cfg.Paths.Standards,
		Logger:        a.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}
	return reg, nil
}
