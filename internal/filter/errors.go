package filter

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors for filter compilation.
var (
	ErrInvalidShape   = errors.New("invalid filter shape")
	ErrInvalidPattern = errors.New("invalid pattern")
	ErrUnknownField   = errors.New("unknown filter field")
	ErrDuplicateID    = errors.New("duplicate condition id")
)

// ConditionError identifies the condition that failed compilation.
// Pattern is set for ErrInvalidPattern and holds the literal pattern.
type ConditionError struct {
	ID      string
	Field   string
	Pattern string
	Err     error
	Cause   error
}

func (e *ConditionError) Error() string {
	msg := fmt.Sprintf("condition %q: %v", e.ID, e.Err)
	if e.Pattern != "" {
		msg += fmt.Sprintf(" %q", e.Pattern)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ConditionError) Unwrap() error {
	return e.Err
}

// MapHTTPStatus maps filter errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidShape),
		errors.Is(err, ErrInvalidPattern),
		errors.Is(err, ErrUnknownField),
		errors.Is(err, ErrDuplicateID):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
