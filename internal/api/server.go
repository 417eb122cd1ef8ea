// Package api provides the HTTP API server and handlers for the staff directory.
package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/listenupapp/staff-directory/internal/auth"
	domainerrors "github.com/listenupapp/staff-directory/internal/errors"
	"github.com/listenupapp/staff-directory/internal/http/response"
	"github.com/listenupapp/staff-directory/internal/metrics"
	"github.com/listenupapp/staff-directory/internal/notify"
	"github.com/listenupapp/staff-directory/internal/ratelimit"
	"github.com/listenupapp/staff-directory/internal/store"
	"github.com/listenupapp/staff-directory/internal/validation"
)

// Options configures the HTTP surface.
type Options struct {
	CORSOrigins []string
	// Limiter is optional; nil disables rate limiting.
	Limiter *ratelimit.KeyedRateLimiter
	// Metrics is optional; nil disables /metrics and request instrumentation.
	Metrics *metrics.Metrics
	// Notifications is optional; nil disables the SSE stream.
	Notifications *notify.Manager
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store      store.Store
	services   *Services
	tokens     *auth.TokenService
	notify     *notify.Manager
	metrics    *metrics.Metrics
	limiter    *ratelimit.KeyedRateLimiter
	validator  *validation.Validator
	router     *chi.Mux
	api        huma.API
	corsOrigin []string
	logger     *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st store.Store, services *Services, tokens *auth.TokenService, opts Options, logger *slog.Logger) *Server {
	s := &Server{
		store:      st,
		services:   services,
		tokens:     tokens,
		notify:     opts.Notifications,
		metrics:    opts.Metrics,
		limiter:    opts.Limiter,
		validator:  validation.New(),
		router:     chi.NewRouter(),
		corsOrigin: opts.CORSOrigins,
		logger:     logger,
	}

	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("Staff Directory API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, used by tests and OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)

	origins := s.corsOrigin
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Location", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if s.metrics != nil {
		s.router.Use(s.metrics.Middleware)
	}
	if s.limiter != nil {
		s.router.Use(RateLimitMiddleware(s.limiter, s.logger))
	}
	if s.tokens != nil {
		s.router.Use(authMiddleware(s.tokens))
	}

	s.router.NotFound(s.handleNotFound)
	s.router.MethodNotAllowed(s.handleMethodNotAllowed)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerPeopleRoutes()
	s.registerTagRoutes()
	s.registerPraiseRoutes()
	s.registerGroupRoutes()
	s.registerLookupRoutes()
	s.registerSearchRoutes()

	if s.notify != nil {
		s.router.Get(apiPrefix+"/notifications/stream",
			notify.NewHandler(s.notify, accountFromRequest, s.logger).ServeHTTP)
	}
	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler())
	}
}

func (s *Server) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	response.Error(w, domainerrors.NotFound("Not found."), s.logger)
}

// handleMethodNotAllowed answers with the verbs the matched path accepts.
func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	allowed := s.allowedMethods(r.URL.Path)
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	response.Error(w, domainerrors.MethodNotAllowed(allowed...), s.logger)
}

func (s *Server) allowedMethods(path string) []string {
	candidates := []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete}
	var allowed []string
	for _, m := range candidates {
		if s.router.Match(chi.NewRouteContext(), m, path) {
			allowed = append(allowed, m)
		}
	}
	return allowed
}
