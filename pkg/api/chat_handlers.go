package api

import (
	"net/http"

	"github.com/thevoid12/incident-tracker/pkg/httputil"
)

type postCommentRequest struct {
	Body     string `json:"body"`
	ParentID string `json:"parent_id,omitempty"`
}

func (s *Server) postComment(w http.ResponseWriter, r *http.Request) {
	viewer := s.requireAuth(w, r)
	if viewer == nil {
		return
	}

	incidentID, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	var req postCommentRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	comment, err := s.chat.Post(r.Context(), viewer, incidentID, req.ParentID, req.Body)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	httputil.WriteCreated(w, comment)
}

func (s *Server) getThread(w http.ResponseWriter, r *http.Request) {
	viewer := s.requireAuth(w, r)
	if viewer == nil {
		return
	}

	incidentID, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	thread, err := s.chat.Thread(r.Context(), viewer, incidentID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	httputil.WriteSuccess(w, map[string]interface{}{"comments": thread})
}
