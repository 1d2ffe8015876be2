package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"visiond/internal/vision"
	"visiond/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// statusFor maps well-known vision errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case vision.IsModelNotReady(err):
		return http.StatusServiceUnavailable
	case vision.IsDecode(err):
		return http.StatusUnprocessableEntity
	case vision.IsSessionNotFound(err):
		return http.StatusNotFound
	case vision.IsSuperseded(err):
		return http.StatusConflict
	}
	var he HTTPError
	if errors.As(err, &he) {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}
