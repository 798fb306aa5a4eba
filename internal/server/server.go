// Package server exposes the build pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz             build information
//	GET  /api/v1/ontologies   the OBO catalogue
//	POST /api/v1/build        run a build, body is a pipeline options object
//
// Every response carries an X-Request-ID header. Errors are returned as
// {"code": ..., "message": ...} with the status derived from the error code.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ontoloviz/ontoloviz/pkg/config"
	"github.com/ontoloviz/ontoloviz/pkg/pipeline"
)

// DefaultMaxBody bounds the size of a build request body.
const DefaultMaxBody = 64 << 20

// Server handles API requests with a shared pipeline runner.
type Server struct {
	Runner  *pipeline.Runner
	Config  config.Config // Base config that request configs are decoded over
	Logger  *log.Logger
	MaxBody int64
	Timeout time.Duration // Per-build limit, zero for none

	// AllowCustomOntologies permits builds from arbitrary ontology_url
	// values. Catalogue ontologies are always allowed.
	AllowCustomOntologies bool
}

// New creates a server. A nil logger uses the runner's logger.
func New(runner *pipeline.Runner, cfg config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = runner.Logger
	}
	return &Server{Runner: runner, Config: cfg, Logger: logger, MaxBody: DefaultMaxBody}
}

// Handler returns the route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(chimw.RealIP)
	r.Use(s.logRequests)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", s.health)
	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/ontologies", s.ontologies)
		api.Post("/build", s.build)
	})
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
