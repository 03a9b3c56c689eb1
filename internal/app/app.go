// Package app wires the pipeline together: specification loading,
// artifact production, and solver invocation. The CLI layer parses flags
// into a Config; everything after that happens here.
package app

import (
	"io"
	"log/slog"
)

// App is one configured invocation. Results go to outW (stdout in the
// binary); logs go to logW so the canonical output stream stays clean.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	cfg    *Config
}

// NewApp builds an App with its own isolated logger.
func NewApp(outW, logW io.Writer, cfg *Config) *App {
	return &App{
		outW:   outW,
		logger: newLogger(cfg.LogLevel, cfg.LogFormat, logW),
		cfg:    cfg,
	}
}

// Logger exposes the app logger, primarily for tests.
func (a *App) Logger() *slog.Logger { return a.logger }
