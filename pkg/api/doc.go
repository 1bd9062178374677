// Package api wires the HTTP surface of the incident tracker.
//
// # Overview
//
// The server exposes a JSON API under /api. Every route outside the
// allow-list (login, registration, assets, health, metrics) passes the
// session access gate, which verifies the auth cookie and attaches the
// caller's permission blob to the request.
//
// # Routes
//
//	POST   /api/reg                  register and start a session
//	POST   /api/login                login and set the session cookie
//	POST   /api/logout               clear the session cookie
//	POST   /api/incident             create incident
//	GET    /api/incident             list incidents (paginated)
//	POST   /api/incident/import      bulk import incidents from CSV
//	GET    /api/incident/{id}        fetch one incident
//	PUT    /api/incident/{id}        partial update
//	DELETE /api/incident/{id}        soft delete
//	POST   /api/incident/{id}/chat   post a comment or reply
//	GET    /api/incident/{id}/chat   fetch the comment thread
//	GET    /api/audittrail           list audit entries (paginated, filtered)
//	GET    /api/users                list registered emails
//
// # Error Mapping
//
// Domain errors map to statuses in errors.go: invalid credentials to 401,
// permission denials to 403, missing rows to 404, duplicate email to 409,
// and validation failures to 400. Everything else is a generic 500.
//
// # Related Packages
//
//   - pkg/middleware: access gate and login rate limiting
//   - pkg/users, pkg/incidents, pkg/chat, pkg/audit: domain services
package api
