// Package server exposes a Registry as a read-only JSON catalog over HTTP.
//
// Every lookup route is mounted twice: at the root, resolving names in the
// registry's default schema, and under /schemas/{schema}.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/koustreak/schemareg/internal/errs"
	"github.com/koustreak/schemareg/internal/logger"
	"github.com/koustreak/schemareg/internal/registry"
)

// Server serves one Registry. The registry can be replaced while serving.
type Server struct {
	cfg     *Config
	reg     atomic.Pointer[registry.Registry]
	metrics *metrics
	router  chi.Router
}

// New returns a Server for reg. A nil cfg means DefaultConfig.
func New(reg *registry.Registry, cfg *Config) (*Server, error) {
	if reg == nil {
		return nil, errs.New(errs.ErrKindInvalidInput, "server needs a registry")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	s := &Server{cfg: cfg, metrics: newMetrics()}
	s.reg.Store(reg)
	s.router = s.routes()
	return s, nil
}

// Swap replaces the served registry. In-flight requests finish against the
// registry they started with.
func (s *Server) Swap(reg *registry.Registry) {
	if reg == nil {
		return
	}
	s.reg.Store(reg)
	s.metrics.reloads.Inc()
	logger.With().Str("default_schema", reg.DefaultSchema()).Int("schemas", len(reg.Schemas())).Logger().
		Info("registry swapped")
}

// Registry returns the registry currently served.
func (s *Server) Registry() *registry.Registry { return s.reg.Load() }

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.With().Str("addr", s.cfg.Addr).Logger().Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- errs.Wrap(errs.ErrKindConnectionFailed, "http server failed", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errs.Wrap(errs.ErrKindTimeout, "http server shutdown", err)
	}
	return <-errCh
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	r.Get("/schemas", s.handleSchemas)

	r.Group(s.lookupRoutes)
	r.Route("/schemas/{schema}", s.lookupRoutes)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, errs.New(errs.ErrKindNotFound, "no such route"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method_not_allowed", Message: "catalog is read-only"})
	})
	return r
}

func (s *Server) lookupRoutes(r chi.Router) {
	r.Get("/contents", s.handleContents)
	r.Get("/relations/{name}/row", s.handleRow)
	r.Get("/relations/{name}/relationships", s.handleRelationships)
	r.Get("/tables/{name}/insert", s.handleInsert)
	r.Get("/tables/{name}/update", s.handleUpdate)
	r.Get("/enums/{name}", s.handleEnum)
	r.Get("/composite-types/{name}", s.handleComposite)
	r.Get("/functions/{name}", s.handleFunction)
}
