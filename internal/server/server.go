// Package server assembles the request pipeline around the router and owns
// the HTTP server lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"time"

	"github.com/benvon/content-api/internal/config"
	"github.com/benvon/content-api/internal/content"
	"github.com/benvon/content-api/internal/handlers"
	"github.com/benvon/content-api/internal/middleware"
	"github.com/benvon/content-api/internal/ratelimit"
	"github.com/benvon/content-api/internal/request"
	"github.com/benvon/content-api/internal/telemetry"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"
)

// Server is the content API: router, pipeline and http.Server.
type Server struct {
	cfg     *config.Config
	logger  *zap.Logger
	limiter *ratelimit.Limiter
	router  *mux.Router
	handler http.Handler
	srv     *http.Server
}

// Option customizes a Server
type Option func(*options)

type options struct {
	provider *content.Provider
	started  time.Time
}

// WithProvider replaces the built-in content collections
func WithProvider(p *content.Provider) Option {
	return func(o *options) { o.provider = p }
}

// WithStartTime sets the instant health uptime is measured from
func WithStartTime(t time.Time) Option {
	return func(o *options) { o.started = t }
}

// Route is a registered method and path template
type Route struct {
	Method string
	Path   string
}

// New builds the router and wraps it in the request pipeline:
// CORS, rate limiting, error boundary, logging, body parsing, routing.
// Unmatched requests end in a 404 from inside the error boundary.
func New(cfg *config.Config, logger *zap.Logger, limiter *ratelimit.Limiter, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := options{provider: content.NewProvider(), started: time.Now()}
	for _, opt := range opts {
		opt(&o)
	}

	r := mux.NewRouter()
	if cfg.OTELEnabled {
		r.Use(otelmux.Middleware(telemetry.ServiceName))
	}

	handlers.NewContentHandler(o.provider, config.APIVersion, logger).RegisterRoutes(r)
	r.HandleFunc("/health", handlers.NewHealthChecker(o.started, config.APIVersion, logger).HealthCheck).Methods("GET")
	handlers.NewOpenAPIHandler(logger).RegisterRoutes(r)

	notFound := middleware.NotFound(logger)
	r.NotFoundHandler = notFound
	r.MethodNotAllowedHandler = notFound

	trustProxy := cfg.TrustProxyHeaders
	clientID := func(req *http.Request) string {
		return request.ClientIP(req, trustProxy)
	}

	handler := middleware.Chain(r,
		middleware.CORS(cfg.AllowedOrigins()),
		middleware.RateLimit(limiter, clientID, logger),
		middleware.ErrorHandler(logger),
		middleware.Logging(logger),
		middleware.JSONBody(cfg.MaxBodyBytes),
	)

	s := &Server{
		cfg:     cfg,
		logger:  logger,
		limiter: limiter,
		router:  r,
		handler: handler,
	}
	s.srv = &http.Server{
		Addr:           cfg.Addr(),
		Handler:        handler,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
	return s
}

// Handler returns the full pipeline
func (s *Server) Handler() http.Handler { return s.handler }

// Router returns the router behind the pipeline. Routes added to it are
// served through every pipeline stage.
func (s *Server) Router() *mux.Router { return s.router }

// Routes lists every registered method and path, sorted by path then method.
func (s *Server) Routes() ([]Route, error) {
	var routes []Route
	err := s.router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}
		methods, err := route.GetMethods()
		if err != nil {
			return nil
		}
		for _, m := range methods {
			routes = append(routes, Route{Method: m, Path: path})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk routes: %w", err)
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Method < routes[j].Method
	})
	return routes, nil
}

// Start listens on the configured address and serves until Shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.srv.Addr, err)
	}
	return s.Serve(ln)
}

// Serve serves on ln until Shutdown. A graceful shutdown is not an error.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("server_starting",
		zap.String("addr", ln.Addr().String()),
		zap.String("environment", s.cfg.Environment),
		zap.Int("rate_limit", s.limiter.Limit()),
		zap.Duration("rate_window", s.limiter.Window()),
	)
	if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server_shutting_down")
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	s.logger.Info("server_exited")
	return nil
}
