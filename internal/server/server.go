// Package server implements the stemma HTTP API.
//
// Routes:
//
//	GET      /healthz     build information
//	GET|POST /v1/layout   layout JSON for a description
//	GET|POST /v1/render   SVG, PNG, PDF, JSON or DOT artifacts
//	GET      /metrics     Prometheus metrics (when enabled)
//
// POST bodies are [pipeline.Options] as JSON. GET requests take the same
// fields as query parameters, with formats given as a comma-separated
// list.
package server

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/matzehuels/stemma/pkg/chord"
	"github.com/matzehuels/stemma/pkg/config"
	"github.com/matzehuels/stemma/pkg/observability"
	"github.com/matzehuels/stemma/pkg/pipeline"
)

const shutdownTimeout = 10 * time.Second

// Server serves the pipeline over HTTP.
type Server struct {
	cfg     config.ServerConfig
	chord   chord.Options
	runner  *pipeline.Runner
	logger  *log.Logger
	metrics *observability.Prometheus
	handler http.Handler
}

// New creates a server for the given configuration. When metrics are
// enabled the Prometheus hooks are registered globally.
func New(cfg config.Config, runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{
		cfg:    cfg.Server,
		chord:  cfg.ChordOptions(),
		runner: runner,
		logger: logger,
	}
	if s.cfg.Metrics {
		s.metrics = observability.NewPrometheus("stemma")
		observability.SetSessionHooks(s.metrics)
		observability.SetCacheHooks(s.metrics)
		observability.SetFetchHooks(s.metrics)
	}
	s.handler = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(requestID)
	r.Use(requestLogger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader, cacheHeader},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.health)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		if s.cfg.RequestTimeout > 0 {
			r.Use(chimiddleware.Timeout(s.cfg.RequestTimeout))
		}
		r.Get("/layout", s.layout)
		r.Post("/layout", s.layout)
		r.Get("/render", s.render)
		r.Post("/render", s.render)
	})

	return r
}

// Run listens on the configured address until ctx is done, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr, "metrics", s.metrics != nil)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return s.runner.Close()
}
