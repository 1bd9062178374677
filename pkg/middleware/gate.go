package middleware

import (
	"errors"
	"net/http"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/thevoid12/incident-tracker/pkg/auth"
	"github.com/thevoid12/incident-tracker/pkg/contextkeys"
	"github.com/thevoid12/incident-tracker/pkg/observability"
	"github.com/thevoid12/incident-tracker/pkg/rbac"
	"github.com/thevoid12/incident-tracker/pkg/storage"
)

// DefaultAllowList contains path prefixes reachable without a session.
// /login, /register, and /assets are page routes served by the frontend
// that sits in front of this API; the gate admits them (and redirects
// rejected browser requests to /login) so the same deployment works with
// or without that frontend attached.
var DefaultAllowList = []string{
	"/login",
	"/register",
	"/api/login",
	"/api/reg",
	"/assets",
	"/healthz",
	"/metrics",
}

// AccessGate authenticates every request outside the allow-list using the
// session cookie. Authenticated requests carry an *auth.AuthContext holding
// the caller's permission blob.
type AccessGate struct {
	tokenManager *auth.TokenManager
	users        storage.UserStore
	permCache    *lru.Cache[string, cachedUser]
	allowList    []string
	logger       *observability.Logger
	metrics      *observability.Metrics
}

// cachedUser is the permission cache entry keyed by email.
type cachedUser struct {
	id    string
	perms []byte
}

// NewAccessGate creates the gate. cacheSize bounds the email to permission
// blob LRU cache.
func NewAccessGate(tm *auth.TokenManager, users storage.UserStore, cacheSize int, logger *observability.Logger, metrics *observability.Metrics) (*AccessGate, error) {
	if cacheSize <= 0 {
		cacheSize = 1024
	}
	cache, err := lru.New[string, cachedUser](cacheSize)
	if err != nil {
		return nil, err
	}
	return &AccessGate{
		tokenManager: tm,
		users:        users,
		permCache:    cache,
		allowList:    DefaultAllowList,
		logger:       logger,
		metrics:      metrics,
	}, nil
}

// SetAllowList replaces the default allow-list.
func (g *AccessGate) SetAllowList(paths []string) {
	g.allowList = paths
}

// InvalidateCache drops the cached permission blob for an email. Call this
// when a user's role changes so the next request reloads from storage.
func (g *AccessGate) InvalidateCache(email string) {
	g.permCache.Remove(email)
}

func (g *AccessGate) allowed(path string) bool {
	for _, prefix := range g.allowList {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// Handler wraps an HTTP handler with session authentication.
func (g *AccessGate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.allowed(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(g.tokenManager.CookieName())
		if err != nil {
			g.reject(w, r, "missing")
			return
		}

		claims, err := g.tokenManager.Verify(cookie.Value)
		if err != nil {
			// Absent, expired, and invalid tokens are rejected identically
			// so callers cannot distinguish the failure mode.
			result := "invalid"
			if errors.Is(err, auth.ErrExpiredToken) {
				result = "expired"
			}
			g.reject(w, r, result)
			return
		}

		user, err := g.lookupUser(r, claims.Email)
		if err != nil {
			g.reject(w, r, "unknown_user")
			return
		}

		if g.metrics != nil {
			g.metrics.TokenVerificationsTotal.WithLabelValues("valid").Inc()
		}

		authCtx := &auth.AuthContext{
			Email:       user.Email,
			UserID:      user.ID,
			Permissions: user.Permissions,
		}
		ctx := contextkeys.WithAuth(r.Context(), authCtx)
		ctx = contextkeys.WithUserID(ctx, user.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type gateUser struct {
	Email       string
	ID          string
	Permissions []byte
}

func (g *AccessGate) lookupUser(r *http.Request, email string) (*gateUser, error) {
	if entry, ok := g.permCache.Get(email); ok {
		if g.metrics != nil {
			g.metrics.PermissionCacheHits.Inc()
		}
		return &gateUser{Email: email, ID: entry.id, Permissions: entry.perms}, nil
	}

	if g.metrics != nil {
		g.metrics.PermissionCacheMisses.Inc()
	}

	user, err := g.users.FindByEmail(r.Context(), email)
	if err != nil {
		return nil, err
	}

	g.permCache.Add(email, cachedUser{id: user.ID, perms: user.Role})
	return &gateUser{Email: user.Email, ID: user.ID, Permissions: user.Role}, nil
}

// reject sends 401 for API requests and redirects browser requests to the
// login page.
func (g *AccessGate) reject(w http.ResponseWriter, r *http.Request, reason string) {
	if g.metrics != nil && reason != "missing" {
		g.metrics.TokenVerificationsTotal.WithLabelValues(reason).Inc()
	}
	if g.logger != nil {
		g.logger.WithField("path", r.URL.Path).WithField("reason", reason).Debug("request rejected by access gate")
	}

	if strings.HasPrefix(r.URL.Path, "/api/") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"unauthorized"}`))
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

// GetAuthContext extracts auth context from request
func GetAuthContext(r *http.Request) *auth.AuthContext {
	ctx := r.Context().Value(contextkeys.AuthKey)
	if ctx == nil {
		return nil
	}
	authCtx, ok := ctx.(*auth.AuthContext)
	if !ok {
		return nil
	}
	return authCtx
}

// RequirePermission creates middleware that checks the caller's permission
// blob for a specific permission.
func RequirePermission(perm rbac.Permission, metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authCtx := GetAuthContext(r)
			if authCtx == nil {
				forbiddenResponse(w, "authentication required")
				return
			}

			if !rbac.HasPermission(authCtx.Permissions, perm) {
				if metrics != nil {
					metrics.PermissionChecksTotal.WithLabelValues(perm.String(), "denied").Inc()
				}
				forbiddenResponse(w, "insufficient permissions")
				return
			}

			if metrics != nil {
				metrics.PermissionChecksTotal.WithLabelValues(perm.String(), "allowed").Inc()
			}
			next.ServeHTTP(w, r)
		})
	}
}

func forbiddenResponse(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	w.Write([]byte(`{"error":"` + message + `"}`))
}
