package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/specialistvlad/keepaway/internal/ctxlog"
	"github.com/specialistvlad/keepaway/internal/diag"
	"github.com/specialistvlad/keepaway/internal/metrics"
	"github.com/specialistvlad/keepaway/internal/monkey"
	"github.com/specialistvlad/keepaway/internal/publish"
	"github.com/specialistvlad/keepaway/internal/report"
	"github.com/specialistvlad/keepaway/internal/simulation"
)

// ErrReported marks failures whose diagnostic has already been written to
// the error stream. Callers should exit without printing it again.
var ErrReported = errors.New("error already reported")

// Run executes the main application logic: read the troop, simulate the
// configured number of rounds and write the report.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	logger := a.logger
	logger.Debug("App.Run method started.")

	src, err := os.ReadFile(a.config.InputPath)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	text := string(src)
	for i, line := range strings.Split(text, "\n") {
		logger.Debug("Input line.", "num", i+1, "text", line)
	}

	defs, err := monkey.Parse(text)
	if err != nil {
		return a.report(text, err)
	}
	for _, d := range defs {
		logger.Debug("Monkey parsed.", "definition", d.String())
	}
	logger.Info("📄 Troop loaded.", "path", a.config.InputPath, "monkeys", len(defs))

	rec := metrics.NewRecorder()
	status, err := a.startStatusServer(ctx, rec.Registry())
	if err != nil {
		return err
	}
	a.status = status
	defer a.closeStatusServer(ctx)

	filter := simulation.SnapshotFilter{Rounds: a.config.Snapshots, Every: a.config.SnapshotEvery}
	observers := []simulation.Observer{
		rec,
		simulation.Filtered(report.NewSnapshotPrinter(a.outW), filter),
	}
	if a.status != nil {
		observers = append(observers, a.status)
	}

	pub, err := a.dialPublisher(ctx)
	if err != nil {
		return err
	}
	if pub != nil {
		defer pub.Close()
		observers = append(observers, simulation.Filtered(pub, filter))
	}

	engine, err := simulation.New(defs,
		simulation.WithRelief(a.config.Relief),
		simulation.WithObserver(observers...),
	)
	if err != nil {
		return a.report(text, err)
	}

	logger.Info("🚀 Starting simulation...", "rounds", a.config.Rounds, "relief", a.config.Relief)
	rec.Start()
	if err := engine.Run(ctx, a.config.Rounds); err != nil {
		var terr *simulation.TargetError
		if errors.As(err, &terr) {
			return a.report(text, err)
		}
		return fmt.Errorf("simulation failed: %w", err)
	}
	logger.Info("🏁 Simulation finished.", "rounds", engine.RoundsCompleted())

	res, err := simulation.Summarize(engine.Snapshot(), a.config.Top)
	if err != nil {
		return fmt.Errorf("failed to summarize: %w", err)
	}
	rep := report.New(a.runID, a.config.InputPath, a.config.Relief, res)

	format, err := report.ParseFormat(a.config.Format)
	if err != nil {
		return err
	}
	if err := report.Write(a.outW, format, rep); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	a.result = &rep

	if pub != nil {
		if err := pub.Finish(ctx, rep); err != nil {
			return err
		}
		logger.Info("📡 Published snapshots.", "events", pub.Sent())
	}

	logger.Debug("App.Run method finished.")
	return nil
}

// report renders err against the troop source and returns it marked as
// already reported.
func (a *App) report(src string, err error) error {
	mode, merr := diag.ParseColorMode(a.config.Color)
	if merr != nil {
		mode = diag.ColorNever
	}
	r := diag.NewRenderer(a.errW, mode)
	if rerr := r.Render(a.errW, a.config.InputPath, src, err); rerr != nil {
		return fmt.Errorf("failed to render diagnostic: %w (original error: %w)", rerr, err)
	}
	return fmt.Errorf("%w: %w", ErrReported, err)
}

// dialPublisher connects the snapshot publisher when a URL is configured.
func (a *App) dialPublisher(ctx context.Context) (*publish.Publisher, error) {
	if a.config.PublishURL == "" {
		ctxlog.FromContext(ctx).Debug("Publisher not started: no URL")
		return nil, nil
	}
	client, err := publish.Dial(ctx, publish.Config{
		URL:     a.config.PublishURL,
		Timeout: a.config.PublishTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect publisher: %w", err)
	}
	return publish.NewPublisher(client, a.config.PublishEvent, a.runID), nil
}
