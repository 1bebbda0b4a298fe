// Package statusserver serves liveness, Prometheus metrics and the latest
// round snapshot over HTTP while a simulation runs.
package statusserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/specialistvlad/keepaway/internal/ctxlog"
	"github.com/specialistvlad/keepaway/internal/simulation"
)

// ShutdownTimeout bounds how long Shutdown waits for open requests.
const ShutdownTimeout = 5 * time.Second

// Status is the body of GET /status.
type Status struct {
	RunID   string         `json:"run_id"`
	Round   int            `json:"round"`
	Done    bool           `json:"done"`
	Monkeys []MonkeyStatus `json:"monkeys"`
}

// MonkeyStatus is one monkey inside Status.
type MonkeyStatus struct {
	ID       int    `json:"id"`
	Activity uint64 `json:"activity"`
	Items    int    `json:"items"`
}

// Server is a simulation.Observer that publishes the latest snapshot.
type Server struct {
	router *gin.Engine
	runID  string

	mu     sync.RWMutex
	latest simulation.Snapshot
	done   bool

	httpServer *http.Server
	serveErr   chan error
}

// New builds the router. gatherer backs /metrics and may be nil.
func New(runID string, gatherer prometheus.Gatherer) *Server {
	s := &Server{runID: runID}

	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/health", s.handleHealth)
	router.GET("/status", s.handleStatus)
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
	s.router = router
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	ctxlog.FromContext(c.Request.Context()).Debug("Health check endpoint hit.", "remote_addr", c.Request.RemoteAddr, "path", c.Request.URL.Path)
	c.String(http.StatusOK, "OK\n")
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.Status())
}

// Status returns the latest published state.
func (s *Server) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{RunID: s.runID, Round: s.latest.Round, Done: s.done, Monkeys: make([]MonkeyStatus, len(s.latest.Actors))}
	for i, a := range s.latest.Actors {
		st.Monkeys[i] = MonkeyStatus{ID: a.ID, Activity: a.Activity, Items: a.Items}
	}
	return st
}

// RoundCompleted implements simulation.Observer.
func (s *Server) RoundCompleted(_ context.Context, snap simulation.Snapshot) error {
	s.mu.Lock()
	s.latest = snap
	s.mu.Unlock()
	return nil
}

// MarkDone records that the run has finished.
func (s *Server) MarkDone() {
	s.mu.Lock()
	s.done = true
	s.mu.Unlock()
}

// Start listens on addr and serves in the background. It returns the bound
// address, which differs from addr when addr asks for port 0.
func (s *Server) Start(ctx context.Context, addr string) (string, error) {
	logger := ctxlog.FromContext(ctx)
	if s.httpServer != nil {
		return "", errors.New("status server already started")
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	s.serveErr = make(chan error, 1)

	bound := ln.Addr().String()
	go func() {
		logger.Info("🩺 Status server starting", "address", "http://"+bound+"/health")
		// Serve returns ErrServerClosed on graceful shutdown.
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Status server failed unexpectedly", "error", err)
			s.serveErr <- err
		}
		close(s.serveErr)
	}()
	return bound, nil
}

// Shutdown stops the server started by Start. It is a no-op if the server
// was never started.
func (s *Server) Shutdown(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	if s.httpServer == nil {
		logger.Debug("Status server was not running.")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, ShutdownTimeout)
	defer cancel()

	logger.Info("🩺 Shutting down status server...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("status server shutdown failed: %w", err)
	}
	if err, ok := <-s.serveErr; ok && err != nil {
		return err
	}
	logger.Debug("Status server shut down gracefully.")
	return nil
}
