package api

import (
	"net/http"

	"github.com/thevoid12/incident-tracker/pkg/auth"
	"github.com/thevoid12/incident-tracker/pkg/httputil"
	"github.com/thevoid12/incident-tracker/pkg/incidents"
	"github.com/thevoid12/incident-tracker/pkg/middleware"
	"github.com/thevoid12/incident-tracker/pkg/storage"
)

func getAuthContext(r *http.Request) *auth.AuthContext {
	return middleware.GetAuthContext(r)
}

// requireAuth fetches the auth context or writes a 401. The access gate
// normally guarantees it exists; this guards direct router use.
func (s *Server) requireAuth(w http.ResponseWriter, r *http.Request) *auth.AuthContext {
	authCtx := getAuthContext(r)
	if authCtx == nil {
		httputil.WriteUnauthorized(w, "unauthorized")
	}
	return authCtx
}

func (s *Server) createIncident(w http.ResponseWriter, r *http.Request) {
	viewer := s.requireAuth(w, r)
	if viewer == nil {
		return
	}

	var req incidents.CreateRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	inc, err := s.incidents.Create(r.Context(), viewer, req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	httputil.WriteCreated(w, inc)
}

func (s *Server) listIncidents(w http.ResponseWriter, r *http.Request) {
	viewer := s.requireAuth(w, r)
	if viewer == nil {
		return
	}

	p, err := httputil.ParsePagination(r, s.cfg.DefaultPageSize, s.cfg.MaxPageSize)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	page, err := s.incidents.List(r.Context(), viewer, p.Limit, p.Offset)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	httputil.WriteSuccess(w, page)
}

func (s *Server) getIncident(w http.ResponseWriter, r *http.Request) {
	viewer := s.requireAuth(w, r)
	if viewer == nil {
		return
	}

	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	inc, err := s.incidents.Get(r.Context(), viewer, id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	httputil.WriteSuccess(w, inc)
}

type updateIncidentRequest struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	Status          *string `json:"status"`
	Priority        *string `json:"priority"`
	AssignedTo      *string `json:"assigned_to"`
	Category        *string `json:"category"`
	Tags            *string `json:"tags"`
	ResolutionNotes *string `json:"resolution_notes"`
}

func (s *Server) updateIncident(w http.ResponseWriter, r *http.Request) {
	viewer := s.requireAuth(w, r)
	if viewer == nil {
		return
	}

	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	var req updateIncidentRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	inc, err := s.incidents.Update(r.Context(), viewer, id, storage.IncidentUpdate{
		Title:           req.Title,
		Description:     req.Description,
		Status:          req.Status,
		Priority:        req.Priority,
		AssignedTo:      req.AssignedTo,
		Category:        req.Category,
		Tags:            req.Tags,
		ResolutionNotes: req.ResolutionNotes,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	httputil.WriteSuccess(w, inc)
}

func (s *Server) deleteIncident(w http.ResponseWriter, r *http.Request) {
	viewer := s.requireAuth(w, r)
	if viewer == nil {
		return
	}

	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	if err := s.incidents.Delete(r.Context(), viewer, id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

// importIncidents bulk-creates incidents from an uploaded CSV body.
func (s *Server) importIncidents(w http.ResponseWriter, r *http.Request) {
	viewer := s.requireAuth(w, r)
	if viewer == nil {
		return
	}

	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxImportBytes)
	result, err := s.incidents.ImportCSV(r.Context(), viewer, body)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	httputil.WriteSuccess(w, result)
}
