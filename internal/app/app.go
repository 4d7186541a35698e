package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/specarith/internal/config"
	"github.com/vk/specarith/internal/ctxlog"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	config  *Config
	session *config.Model
	results []Result
}

// NewApp is the constructor for the main application. Results are written to
// outW and logs to logW. It loads the session files eagerly and panics when
// they cannot be loaded.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, cfg.SessionPath)
	if err != nil {
		// A failure to load the session is a fatal startup error.
		panic(fmt.Errorf("failed to load session: %w", err))
	}
	logger.Debug("Session loaded into unified model.", "spectra", len(model.Spectra), "derived", len(model.Derived))

	return &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		session: model,
	}
}

// Model returns the loaded session model. This is primarily for testing.
func (a *App) Model() *config.Model {
	return a.session
}
