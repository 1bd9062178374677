// Package middleware provides HTTP middleware for authentication, authorization, and rate limiting.
//
// # Overview
//
// This package implements request processing middleware including the session
// access gate, permission enforcement, and rate limiting (in-memory and
// Redis-backed).
//
// # Middleware Components
//
// AccessGate: cookie session authentication
//
//	gate, _ := middleware.NewAccessGate(tokenManager, userStore, 1024, logger, metrics)
//	router.Use(gate.Handler)
//	// Verifies the session cookie, loads the caller's permission blob,
//	// and adds AuthContext to the request. Paths on the allow-list
//	// (login, registration, assets, health, metrics) pass through.
//
// RequirePermission: per-route permission enforcement
//
//	router.Handle("/api/incident", middleware.RequirePermission(rbac.PermCreateIncident, metrics)(handler))
//
// RateLimitMiddleware: in-memory rate limiting keyed by client IP
//
//	rl := middleware.NewRateLimitMiddleware(middleware.DefaultRateLimitConfig())
//	router.Use(rl.Handler)
//
// LoginRateLimitMiddleware: Redis-backed fixed window limiter for
// credential endpoints; fails open when Redis is unavailable
//
//	lrl := middleware.NewLoginRateLimitMiddleware(redisClient, nil, logger, metrics)
//	loginRouter.Use(lrl.Handler)
//
// Both middlewares satisfy CredentialLimiter; single-instance deployments
// without Redis put RateLimitMiddleware on the credential routes instead.
//
// # Rejection Behavior
//
// Requests failing the access gate receive HTTP 401 on /api/ paths and a
// 302 redirect to /login everywhere else. Absent, expired, and tampered
// tokens are indistinguishable to the caller.
//
// # Related Packages
//
//   - pkg/auth: Session token verification
//   - pkg/rbac: Permission blob decoding
//   - pkg/storage: Permission blob lookup
package middleware
