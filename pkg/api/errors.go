package api

import (
	"errors"
	"net/http"

	"github.com/thevoid12/incident-tracker/pkg/chat"
	"github.com/thevoid12/incident-tracker/pkg/httputil"
	"github.com/thevoid12/incident-tracker/pkg/incidents"
	"github.com/thevoid12/incident-tracker/pkg/rbac"
	"github.com/thevoid12/incident-tracker/pkg/storage"
	"github.com/thevoid12/incident-tracker/pkg/users"
)

// writeServiceError maps domain errors onto HTTP status codes. Anything
// unmapped is a 500 with a generic body so internals never leak.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, users.ErrInvalidCredentials):
		httputil.WriteUnauthorized(w, "invalid credentials")
	case errors.Is(err, rbac.ErrPermissionDenied):
		httputil.WriteForbidden(w, "insufficient permissions")
	case errors.Is(err, storage.ErrNotFound):
		httputil.WriteNotFoundError(w, "not found")
	case errors.Is(err, users.ErrEmailTaken):
		httputil.WriteConflict(w, "email already registered")
	case errors.Is(err, users.ErrPasswordMismatch),
		errors.Is(err, users.ErrUnknownRole),
		errors.Is(err, incidents.ErrEmptyTitle),
		errors.Is(err, incidents.ErrInvalidStatus),
		errors.Is(err, incidents.ErrInvalidPriority),
		errors.Is(err, chat.ErrEmptyBody),
		errors.Is(err, chat.ErrParentNotFound),
		errors.Is(err, chat.ErrNestedReply):
		httputil.WriteBadRequest(w, err.Error())
	default:
		if s.logger != nil {
			s.logger.WithError(err).Error("request failed")
		}
		httputil.WriteErrorMessage(w, http.StatusInternalServerError, "internal server error")
	}
}
