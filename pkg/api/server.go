// Package api serves crossing counts and ordering runs over HTTP.
//
//	GET  /healthz        liveness check
//	POST /v1/crossings   graph JSON in, {"crossings": n} out
//	POST /v1/optimize    {"graph": ..., "params": ...} in, result JSON out
//	POST /v1/render      graph or result JSON in, DOT or SVG out (?format=svg)
//
// Client mistakes are answered with 400 and a {"code", "message"} body.
package api

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/untangle/pkg/config"
	"github.com/matzehuels/untangle/pkg/pipeline"
)

// Server routes API requests to a shared [pipeline.Runner].
type Server struct {
	runner   *pipeline.Runner
	defaults pipeline.Options
	cfg      config.ServerConfig
	logger   *log.Logger
	router   chi.Router
}

// New builds the router. defaults seed every optimize request before the
// request body overrides them.
func New(runner *pipeline.Runner, defaults pipeline.Options, cfg config.ServerConfig, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = config.Default().Server.MaxBodyBytes
	}
	s := &Server{runner: runner, defaults: defaults, cfg: cfg, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	if cfg.Timeout.Duration > 0 {
		r.Use(middleware.Timeout(cfg.Timeout.Duration))
	}

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Use(s.limitBody)
		r.Post("/crossings", s.handleCrossings)
		r.Post("/optimize", s.handleOptimize)
		r.Post("/render", s.handleRender)
	})
	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully. A nil ready channel is allowed; otherwise the bound address
// is sent once the listener is open.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready chan<- net.Addr) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	if ready != nil {
		ready <- ln.Addr()
	}
	s.logger.Info("listening", "addr", ln.Addr().String())

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
