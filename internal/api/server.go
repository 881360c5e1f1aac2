package api

import (
	"context"
	"net/http"
	"time"

	"github.com/ignite/newsletter/internal/config"
	"github.com/ignite/newsletter/internal/frontend"
	"github.com/ignite/newsletter/internal/pkg/metrics"
	"github.com/ignite/newsletter/internal/service/newsletter"
	"github.com/prometheus/client_golang/prometheus"
)

// Dependencies are the collaborators the HTTP layer needs.
type Dependencies struct {
	Service  *newsletter.Service
	Store    newsletter.Acquirer
	Archive  newsletter.Archiver  // optional; export answers 503 without it
	Health   *HealthChecker       // optional
	Frontend *frontend.Renderer   // optional
	Metrics  *prometheus.Registry // optional; enables /metrics
}

// Server represents the API server
type Server struct {
	config  config.ServerConfig
	handler http.Handler
	server  *http.Server
}

// NewServer creates a new API server
func NewServer(cfg config.ServerConfig, deps Dependencies) *Server {
	var (
		events  *metrics.Subscribers
		httpMet *metrics.HTTPMetrics
	)
	if deps.Metrics != nil {
		events = metrics.NewSubscribers(deps.Metrics)
		httpMet = metrics.NewHTTPMetrics(deps.Metrics)
	}

	handlers := NewHandlers(deps.Service, deps.Store, deps.Archive, events)
	router := SetupRoutes(handlers, deps, httpMet, cfg.CORSOrigins)

	return &Server{
		config:  cfg,
		handler: router,
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing
func (s *Server) Handler() http.Handler {
	return s.handler
}
