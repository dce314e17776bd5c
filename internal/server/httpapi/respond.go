package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/habitkeeper/internal/common"
	"github.com/dmitrijs2005/habitkeeper/internal/server/services"
)

const (
	maxBodyBytes = 1 << 20

	msgNotFound           = "Not found."
	msgNoCredentials      = "Authentication credentials were not provided."
	msgInvalidCredentials = "No active account found with the given credentials"
	msgTokenInvalid       = "Token is invalid or expired"
	msgInternal           = "Internal server error."
	msgDateFormat         = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeTokenInvalid(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, map[string]string{
		"detail": msgTokenInvalid,
		"code":   "token_not_valid",
	})
}

// writeError maps service errors to status codes and JSON bodies.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, verr.Fields)
	case errors.Is(err, common.ErrorNotFound):
		writeDetail(w, http.StatusNotFound, msgNotFound)
	case errors.Is(err, common.ErrorInvalidCredentials):
		writeDetail(w, http.StatusUnauthorized, msgInvalidCredentials)
	case errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		writeTokenInvalid(w)
	case errors.Is(err, common.ErrorUnauthorized):
		writeDetail(w, http.StatusUnauthorized, msgNoCredentials)
	default:
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeDetail(w, http.StatusInternalServerError, msgInternal)
	}
}

// decodeBody reads a JSON object into v. On failure it writes a 400 and
// returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			writeDetail(w, http.StatusBadRequest, "JSON parse error - empty body")
			return false
		}
		writeDetail(w, http.StatusBadRequest, fmt.Sprintf("JSON parse error - %v", err))
		return false
	}
	return true
}
