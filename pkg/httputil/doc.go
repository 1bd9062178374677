// Package httputil provides shared HTTP handler plumbing.
//
// # Overview
//
// Every handler in pkg/api goes through these helpers so requests are
// parsed and responses shaped the same way: JSON bodies in, JSON bodies
// out, errors always as {"error": "..."}.
//
// # Response Helpers
//
//	httputil.WriteSuccess(w, page)
//	httputil.WriteCreated(w, incident)
//	httputil.WriteNoContent(w)
//
//	httputil.WriteBadRequest(w, "limit must be positive")
//	httputil.WriteUnauthorized(w, "unauthorized")
//	httputil.WriteForbidden(w, "permission denied")
//	httputil.WriteConflict(w, "email already registered")
//
// # Request Parsing
//
//	var req CreateIncidentRequest
//	if !httputil.ParseJSONOrError(w, r, &req) {
//		return // 400 already written
//	}
//
//	id, ok := httputil.ParsePathStringOrError(w, r, "id")
//	action := httputil.ParseQueryString(r, "user_action", "")
//	p, err := httputil.ParsePagination(r, 10, 100)
//
// # Middleware
//
//	httputil.Chain(
//		httputil.RequestIDMiddleware,
//		httputil.RecoveryMiddleware,
//		httputil.TimeoutMiddleware(30*time.Second),
//	)(router)
//
// # Related Packages
//
//   - pkg/middleware: session gate, permission checks, rate limiting
package httputil
