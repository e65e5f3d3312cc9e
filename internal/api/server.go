// Package api serves compliance checks, standards lookups and run history over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"luxcheck/app"
	"luxcheck/internal"
	"luxcheck/internal/alias"
	"luxcheck/internal/catalog"
	"luxcheck/internal/resolver"
)

const (
	DefaultMaxBodyBytes   int64 = 10 << 20
	DefaultRequestTimeout       = 30 * time.Second
)

// Deps are the components the handlers call
type Deps struct {
	Service    *app.ComplianceService
	Resolver   *resolver.Resolver
	Normalizer *alias.Normalizer
	Catalog    catalog.LoadOutcome
}

// Server is the HTTP front end
type Server struct {
	router     *chi.Mux
	service    *app.ComplianceService
	resolver   *resolver.Resolver
	normalizer *alias.Normalizer
	catalog    catalog.LoadOutcome
	maxBytes   int64
	timeout    time.Duration
	logger     *internal.Logger
}

// Option configures a Server
type Option func(*Server)

// WithMaxBodyBytes limits the size of request bodies
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBytes = n
		}
	}
}

// WithRequestTimeout bounds the handling time of a request
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the server logger
func WithLogger(logger *internal.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewServer creates the HTTP server and its routes
func NewServer(deps Deps, opts ...Option) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		service:    deps.Service,
		resolver:   deps.Resolver,
		normalizer: deps.Normalizer,
		catalog:    deps.Catalog,
		maxBytes:   DefaultMaxBodyBytes,
		timeout:    DefaultRequestTimeout,
		logger:     internal.DefaultLogger.WithPrefix("api"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures HTTP middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.timeout))
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/standards", func(r chi.Router) {
		r.Get("/", s.handleStandards)
		r.Get("/requirements", s.handleRequirements)
	})

	s.router.Route("/compliance", func(r chi.Router) {
		r.Post("/check", s.handleCheck)
		r.Post("/check/detailed", s.handleCheckDetailed)
	})

	s.router.Post("/aliases/normalize", s.handleNormalize)
	s.router.Post("/design/report", s.handleDesignReport)

	s.router.Route("/runs", func(r chi.Router) {
		r.Get("/", s.handleListRuns)
		r.Get("/stats", s.handleRunStats)
		r.Get("/{id}", s.handleGetRun)
		r.Get("/{id}/report", s.handleRunReport)
	})
}

// Handler returns the routed handler, used by tests and embedding servers
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
