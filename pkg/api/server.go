package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/thevoid12/incident-tracker/pkg/audit"
	"github.com/thevoid12/incident-tracker/pkg/auth"
	"github.com/thevoid12/incident-tracker/pkg/chat"
	"github.com/thevoid12/incident-tracker/pkg/httputil"
	"github.com/thevoid12/incident-tracker/pkg/incidents"
	"github.com/thevoid12/incident-tracker/pkg/middleware"
	"github.com/thevoid12/incident-tracker/pkg/observability"
	"github.com/thevoid12/incident-tracker/pkg/users"
)

// Config carries the tunables the server needs beyond its dependencies.
type Config struct {
	DefaultPageSize int
	MaxPageSize     int
	// MaxImportBytes bounds CSV import request bodies.
	MaxImportBytes int64
	// TracingEnabled wraps the handler chain with otelhttp when set.
	TracingEnabled bool
}

// DefaultConfig returns the server defaults.
func DefaultConfig() Config {
	return Config{
		DefaultPageSize: 10,
		MaxPageSize:     100,
		MaxImportBytes:  10 << 20,
	}
}

// Server wires the HTTP routes to the domain services.
type Server struct {
	router       *mux.Router
	cfg          Config
	users        *users.Service
	incidents    *incidents.Service
	chat         *chat.Service
	audit        *audit.Service
	tokens       *auth.TokenManager
	gate         *middleware.AccessGate
	loginLimiter middleware.CredentialLimiter
	logger       *observability.Logger
	metrics      *observability.Metrics
}

// NewServer creates the API server and sets up all routes.
func NewServer(
	cfg Config,
	userSvc *users.Service,
	incidentSvc *incidents.Service,
	chatSvc *chat.Service,
	auditSvc *audit.Service,
	tokens *auth.TokenManager,
	gate *middleware.AccessGate,
	loginLimiter middleware.CredentialLimiter,
	logger *observability.Logger,
	metrics *observability.Metrics,
) *Server {
	if cfg.DefaultPageSize <= 0 {
		cfg = DefaultConfig()
	}
	s := &Server{
		router:       mux.NewRouter(),
		cfg:          cfg,
		users:        userSvc,
		incidents:    incidentSvc,
		chat:         chatSvc,
		audit:        auditSvc,
		tokens:       tokens,
		gate:         gate,
		loginLimiter: loginLimiter,
		logger:       logger,
		metrics:      metrics,
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all the API routes
func (s *Server) setupRoutes() {
	// Credential routes sit behind the login rate limiter.
	creds := s.router.PathPrefix("/api").Subrouter()
	if s.loginLimiter != nil {
		creds.Use(s.loginLimiter.Handler)
	}
	creds.HandleFunc("/login", s.handleLogin).Methods("POST")
	creds.HandleFunc("/reg", s.handleRegister).Methods("POST")

	s.router.HandleFunc("/api/logout", s.handleLogout).Methods("POST")

	// Incident routes
	s.router.HandleFunc("/api/incident", s.createIncident).Methods("POST")
	s.router.HandleFunc("/api/incident", s.listIncidents).Methods("GET")
	s.router.HandleFunc("/api/incident/import", s.importIncidents).Methods("POST")
	s.router.HandleFunc("/api/incident/{id}", s.getIncident).Methods("GET")
	s.router.HandleFunc("/api/incident/{id}", s.updateIncident).Methods("PUT")
	s.router.HandleFunc("/api/incident/{id}", s.deleteIncident).Methods("DELETE")

	// Comment routes
	s.router.HandleFunc("/api/incident/{id}/chat", s.postComment).Methods("POST")
	s.router.HandleFunc("/api/incident/{id}/chat", s.getThread).Methods("GET")

	// Audit trail
	s.router.HandleFunc("/api/audittrail", s.listAuditTrail).Methods("GET")

	// User directory
	s.router.HandleFunc("/api/users", s.listUserEmails).Methods("GET")
}

// Router returns the bare route table, without the middleware chain.
func (s *Server) Router() *mux.Router {
	return s.router
}

// Handler returns the full middleware chain around the route table.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.router
	if s.gate != nil {
		handler = s.gate.Handler(handler)
	}
	if s.metrics != nil {
		handler = observability.HTTPMetricsMiddleware(s.metrics)(handler)
	}
	handler = httputil.Chain(
		httputil.RequestIDMiddleware,
		httputil.RecoveryMiddleware,
		httputil.TimeoutMiddleware(30*time.Second),
	)(handler)
	if s.cfg.TracingEnabled {
		handler = otelhttp.NewHandler(handler, "incident-tracker")
	}
	return handler
}
