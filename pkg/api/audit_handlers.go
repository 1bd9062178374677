package api

import (
	"net/http"
	"time"

	"github.com/thevoid12/incident-tracker/pkg/httputil"
	"github.com/thevoid12/incident-tracker/pkg/storage"
)

// listAuditTrail serves the audit trail with optional filters. Visibility
// (own entries vs all) is decided by the audit service from the caller's
// permissions.
func (s *Server) listAuditTrail(w http.ResponseWriter, r *http.Request) {
	viewer := s.requireAuth(w, r)
	if viewer == nil {
		return
	}

	p, err := httputil.ParsePagination(r, s.cfg.DefaultPageSize, s.cfg.MaxPageSize)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	filter := storage.AuditFilter{
		UserAction: httputil.ParseQueryString(r, "user_action", ""),
		Email:      httputil.ParseQueryString(r, "email", ""),
	}
	if raw := r.URL.Query().Get("start_date"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httputil.WriteBadRequest(w, "start_date must be RFC3339")
			return
		}
		filter.StartDate = &ts
	}
	if raw := r.URL.Query().Get("end_date"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httputil.WriteBadRequest(w, "end_date must be RFC3339")
			return
		}
		filter.EndDate = &ts
	}

	page, err := s.audit.List(r.Context(), viewer, filter, p.Limit, p.Offset)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	httputil.WriteSuccess(w, page)
}
