// Package handlers provides shared HTTP response and request helpers for domain handlers.
package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"
)

// ErrInvalidBody is returned by DecodeJSON when the request body cannot be decoded.
var ErrInvalidBody = errors.New("invalid request body")

// RespondJSON writes data as a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError logs err and writes it as a JSON error body.
// Server errors log at error level, client errors at warn.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	if status >= http.StatusInternalServerError {
		logger.Error("handler error", "status", status, "error", err)
	} else {
		logger.Warn("request rejected", "status", status, "error", err)
	}
	RespondJSON(w, status, map[string]string{"error": err.Error()})
}

// DecodeJSON decodes the request body into T.
// An empty body yields the zero value of T.
func DecodeJSON[T any](r *http.Request) (T, error) {
	var v T
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return v, nil
		}
		return v, errors.Join(ErrInvalidBody, err)
	}
	return v, nil
}
