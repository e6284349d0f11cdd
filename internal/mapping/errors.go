package mapping

import (
	"errors"
	"net/http"
)

// Domain errors for mapping tables.
var (
	ErrTaskNotFound = errors.New("mapping task not found")
	ErrTaskExists   = errors.New("mapping task id already used")
)

// MapHTTPStatus maps mapping errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrTaskNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrTaskExists) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
