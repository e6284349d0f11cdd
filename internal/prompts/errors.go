package prompts

import (
	"errors"
	"net/http"
)

var (
	ErrInvalidStage       = errors.New("unknown prompt stage")
	ErrEmptyInstructions  = errors.New("instructions must not be empty")
	ErrInstructionsTooBig = errors.New("instructions exceed the size limit")
)

// MapHTTPStatus maps prompt errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidStage):
		return http.StatusBadRequest
	case errors.Is(err, ErrEmptyInstructions), errors.Is(err, ErrInstructionsTooBig):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
