package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/specialistvlad/keepaway/internal/ctxlog"
	"github.com/specialistvlad/keepaway/internal/report"
	"github.com/specialistvlad/keepaway/internal/statusserver"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	errW   io.Writer
	logger *slog.Logger
	config *Config
	runID  string
	ctx    context.Context

	status *statusserver.Server
	result *report.Report
}

// NewApp is the constructor for the main application. Results go to outW;
// logs and diagnostics go to errW. Every App gets its own run id and its
// own logger carrying it.
func NewApp(outW, errW io.Writer, cfg *Config) *App {
	runID := uuid.NewString()
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, errW).With("run_id", runID)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:   outW,
		errW:   errW,
		logger: logger,
		config: cfg,
		runID:  runID,
		ctx:    ctx,
	}
}

// RunID returns the identifier attached to every log line of this run.
func (a *App) RunID() string {
	return a.runID
}

// Result returns the report of the last successful Run, or nil. This is
// primarily for testing.
func (a *App) Result() *report.Report {
	return a.result
}
