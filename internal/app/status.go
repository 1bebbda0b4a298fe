package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/specialistvlad/keepaway/internal/ctxlog"
	"github.com/specialistvlad/keepaway/internal/statusserver"
)

// startStatusServer runs the status server when a port is configured. It
// returns nil when the server is disabled.
func (a *App) startStatusServer(ctx context.Context, gatherer prometheus.Gatherer) (*statusserver.Server, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Configuring status server.")
	if a.config.HealthcheckPort <= 0 {
		logger.Debug("Status server not started: disabled")
		return nil, nil
	}

	srv := statusserver.New(a.runID, gatherer)
	if _, err := srv.Start(ctx, fmt.Sprintf(":%d", a.config.HealthcheckPort)); err != nil {
		return nil, fmt.Errorf("failed to start status server: %w", err)
	}
	return srv, nil
}

func (a *App) closeStatusServer(ctx context.Context) {
	if a.status == nil {
		return
	}
	a.status.MarkDone()
	if err := a.status.Shutdown(ctx); err != nil {
		ctxlog.FromContext(ctx).Error("Status server shutdown failed", "error", err)
	}
	a.status = nil
}
