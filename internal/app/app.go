package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/vk/fractalgrid/internal/config"
	"github.com/vk/fractalgrid/internal/ctxlog"
	"github.com/vk/fractalgrid/internal/partition"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	model   *config.Model
	engine  *partition.Engine
	started time.Time
}

// NewApp is the constructor for the main application. It loads the
// configuration, applies overrides and builds the partition engine.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader) (*App, error) {
	started := time.Now()
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	cfgModel := config.Default()
	if len(appConfig.ConfigPaths) > 0 {
		loaded, err := loader.Load(ctx, cfgModel, appConfig.ConfigPaths...)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		cfgModel = loaded
		logger.Debug("Configuration loaded.", "paths", appConfig.ConfigPaths)
	}

	for _, override := range appConfig.Overrides {
		override(cfgModel)
	}
	if err := cfgModel.Params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	engine, err := partition.New(cfgModel.Engine)
	if err != nil {
		return nil, fmt.Errorf("invalid engine configuration: %w", err)
	}
	logger.Debug("Partition engine configured.", "strategy", engine.Config().Strategy, "workers", engine.Config().Workers)

	return &App{
		outW:    outW,
		logger:  logger,
		model:   cfgModel,
		engine:  engine,
		started: started,
	}, nil
}

// Model returns the effective configuration. This is primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}
