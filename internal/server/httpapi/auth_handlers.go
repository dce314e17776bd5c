package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/habitkeeper/internal/common"
)

// login accepts either username or email next to the password.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	login := strings.TrimSpace(req.Username)
	if login == "" {
		login = strings.TrimSpace(req.Email)
	}

	fields := map[string][]string{}
	if login == "" {
		fields["username"] = []string{"This field is required."}
	}
	if req.Password == "" {
		fields["password"] = []string{"This field is required."}
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, fields)
		return
	}

	pair, err := s.users.Login(r.Context(), login, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Logged in", "login", login)
	writeJSON(w, http.StatusOK, tokenResponse{Access: pair.AccessToken, Refresh: pair.RefreshToken})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	u, err := s.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "username", u.Username, "id", u.ID)
	writeJSON(w, http.StatusCreated, accountResponse{ID: u.ID, Username: u.Username, Email: u.Email})
}

func (s *Server) refreshToken(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Refresh) == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"refresh": {"This field is required."}})
		return
	}

	pair, err := s.users.RefreshToken(r.Context(), req.Refresh)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Access: pair.AccessToken, Refresh: pair.RefreshToken})
}

// logout revokes the posted refresh token. The access token stays valid
// until it expires.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Refresh) == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"refresh": {"This field is required."}})
		return
	}

	userID := userIDFrom(r.Context())
	if err := s.users.Logout(r.Context(), userID, req.Refresh); err != nil {
		if errors.Is(err, common.ErrInvalidToken) {
			writeDetail(w, http.StatusBadRequest, msgTokenInvalid)
			return
		}
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Logged out", "id", userID)
	w.WriteHeader(http.StatusResetContent)
}
