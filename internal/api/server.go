package api

import (
	"net/http"
	"time"

	"github.com/darmiel/checkin/internal/api/middleware"
	"github.com/darmiel/checkin/internal/attendance"
	"github.com/darmiel/checkin/internal/audit"
	"github.com/darmiel/checkin/internal/core"
	"github.com/darmiel/checkin/internal/service"
	"github.com/darmiel/checkin/internal/session"
)

type Server struct {
	issuer     *service.TokenIssuer
	validator  *service.TokenValidator
	sessions   session.Resolver
	identities core.IdentityResolver
	auditor    core.Auditor
	location   *time.Location

	metrics    http.Handler
	limiter    *middleware.RateLimiter
	attendance attendance.Lister
}

type ServerOption func(*Server)

// WithAttendance exposes stored check-ins on the admin routes.
func WithAttendance(lister attendance.Lister) ServerOption {
	return func(s *Server) {
		s.attendance = lister
	}
}

// WithMetrics mounts h on the metrics route.
func WithMetrics(h http.Handler) ServerOption {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithRateLimit throttles the token routes per client address.
func WithRateLimit(limiter *middleware.RateLimiter) ServerOption {
	return func(s *Server) {
		s.limiter = limiter
	}
}

func NewServer(
	issuer *service.TokenIssuer,
	validator *service.TokenValidator,
	sessions session.Resolver,
	identities core.IdentityResolver,
	auditor core.Auditor,
	location *time.Location,
	opts ...ServerOption,
) *Server {
	if auditor == nil {
		auditor = audit.NewNoopAuditor()
	}
	if location == nil {
		location = time.Local
	}
	s := &Server{
		issuer:     issuer,
		validator:  validator,
		sessions:   sessions,
		identities: identities,
		auditor:    auditor,
		location:   location,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes builds the HTTP handler. Admin routes are only mounted if adminSigningKey is set.
func (s *Server) Routes(adminSigningKey []byte) http.Handler {
	mux := http.NewServeMux()

	// public routes
	mux.HandleFunc("GET "+HealthCheckRoute, s.handleHealth)
	mux.HandleFunc("GET "+AboutRoute, s.handleAbout)
	if s.metrics != nil {
		mux.Handle("GET "+MetricsRoute, s.metrics)
	}

	// token lifecycle routes, scoped to a session
	withSession := session.Middleware(s.sessions)
	tokenRoute := func(h http.HandlerFunc) http.Handler {
		handler := withSession(h)
		if s.limiter != nil {
			handler = s.limiter.Middleware(handler)
		}
		return handler
	}
	mux.Handle("GET "+IssueTokenRoute, tokenRoute(s.handleIssue))
	mux.Handle("GET "+RegisterRoute, tokenRoute(s.handleRegister))

	// admin routes
	if len(adminSigningKey) > 0 {
		adminMux := http.NewServeMux()
		adminMux.HandleFunc("GET "+ListAuditsRoute, s.handleAdminAudit)
		adminMux.HandleFunc("GET "+ListAttendanceRoute, s.handleAdminAttendance)
		mux.Handle(AdminParent, middleware.AdminAuth(adminSigningKey)(adminMux))
	}

	return middleware.RecoverMiddleware(
		middleware.CorrelationIDMiddleware(
			middleware.LoggingMiddleware(
				mux)))
}
