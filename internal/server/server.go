// Package server exposes the scored slate over HTTP: a JSON API, an
// HTML dashboard, Prometheus metrics and a websocket refresh feed.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/regulation-radar/internal/config"
	"github.com/yourusername/regulation-radar/internal/metrics"
	"github.com/yourusername/regulation-radar/internal/service"
)

// DatabasePinger defines the interface for checking database connectivity.
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// Server is the HTTP front end for the analyzer.
type Server struct {
	cfg      config.ServerConfig
	analyzer *service.Analyzer
	hub      *Hub
	logger   *logrus.Logger
	db       DatabasePinger
	metrics  bool
	server   *http.Server
}

// Option configures optional server collaborators.
type Option func(*Server)

// WithDatabasePinger wires the readiness check to the prediction store.
func WithDatabasePinger(db DatabasePinger) Option {
	return func(s *Server) { s.db = db }
}

// WithMetricsEndpoint exposes the Prometheus registry at /metrics.
func WithMetricsEndpoint() Option {
	return func(s *Server) { s.metrics = true }
}

// New creates the HTTP server.
func New(cfg config.ServerConfig, analyzer *service.Analyzer, logger *logrus.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	s := &Server{
		cfg:      cfg,
		analyzer: analyzer,
		hub:      NewHub(logger),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hub returns the websocket hub so the scheduler can push refresh
// notices after each recompute.
func (s *Server) Hub() *Hub {
	return s.hub
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleDashboard)
	mux.HandleFunc("/api/games", s.handleGames)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/ws", s.handleWS)
	if s.metrics {
		mux.Handle("/metrics", metrics.Handler())
	}
	return s.withRequestID(s.withLogging(mux))
}

// Start runs the server until the context is cancelled, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.routes(),
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go s.hub.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("port", s.cfg.Port).Info("HTTP server starting")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.Shutdown()
	}
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}
	s.logger.Info("HTTP server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}
