package api

import (
	"net/http"

	"github.com/thevoid12/incident-tracker/pkg/httputil"
)

type registerRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Role            string `json:"role,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Email string `json:"email"`
	ID    string `json:"id"`
}

// handleRegister creates a user and starts a session in one step.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	user, token, err := s.users.Register(r.Context(), req.Email, req.Password, req.ConfirmPassword, req.Role)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.tokens.AttachCookie(w, token)
	httputil.WriteCreated(w, sessionResponse{Email: user.Email, ID: user.ID})
}

// handleLogin verifies credentials and sets the session cookie.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	user, token, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.tokens.AttachCookie(w, token)
	httputil.WriteSuccess(w, sessionResponse{Email: user.Email, ID: user.ID})
}

// handleLogout clears the session cookie. The token itself stays valid
// until expiry; logout is purely client side.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.tokens.ClearCookie(w)
	if s.gate != nil {
		if authCtx := getAuthContext(r); authCtx != nil {
			s.gate.InvalidateCache(authCtx.Email)
		}
	}
	httputil.WriteNoContent(w)
}

// listUserEmails returns every registered email for assignment pickers.
func (s *Server) listUserEmails(w http.ResponseWriter, r *http.Request) {
	emails, err := s.users.ListEmails(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	httputil.WriteSuccess(w, map[string][]string{"emails": emails})
}
