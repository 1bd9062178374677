// Package contextkeys holds every context key the application uses.
// Defining them in one leaf package keeps the key set discoverable and
// lets pkg/httputil, pkg/middleware, and pkg/observability share keys
// without importing each other.
package contextkeys

import "context"

// Key is a distinct type so application keys can never collide with
// string keys from other packages.
type Key string

const (
	// AuthKey carries the *auth.AuthContext the access gate attaches
	// after verifying the session cookie.
	AuthKey Key = "auth_context"

	// RequestIDKey carries the per-request UUID set by
	// httputil.RequestIDMiddleware.
	RequestIDKey Key = "request_id"

	// UserIDKey carries the authenticated user's ID for log
	// correlation.
	UserIDKey Key = "user_id"

	// LoggerKey carries a *observability.Logger scoped to the request.
	LoggerKey Key = "logger"
)

// The With/Get helpers below take interface{} where the stored type
// lives in a package that imports this one; callers type-assert on the
// way out.

// WithAuth stores the access gate's auth context.
func WithAuth(ctx context.Context, authCtx interface{}) context.Context {
	return context.WithValue(ctx, AuthKey, authCtx)
}

// WithRequestID stores the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// WithUserID stores the user ID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// WithLogger stores a request-scoped logger.
func WithLogger(ctx context.Context, logger interface{}) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// GetRequestID returns the request ID, or "" when unset.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// GetUserID returns the user ID, or "" when unset.
func GetUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(UserIDKey).(string); ok {
		return userID
	}
	return ""
}
