package sessions

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/taxon/internal/classifier"
	"github.com/JaimeStill/taxon/internal/export"
	"github.com/JaimeStill/taxon/internal/filter"
	"github.com/JaimeStill/taxon/internal/ingest"
	"github.com/JaimeStill/taxon/internal/mapping"
	"github.com/JaimeStill/taxon/internal/table"
	"github.com/JaimeStill/taxon/pkg/handlers"
)

// Domain errors for session operations.
var (
	ErrNotFound     = errors.New("session not found")
	ErrNotReady     = errors.New("session classification has not finished")
	ErrEmpty        = errors.New("no rows to classify")
	ErrInvalidFile  = errors.New("invalid upload")
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")
)

// MapHTTPStatus maps session and downstream errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotReady):
		return http.StatusConflict
	case errors.Is(err, ErrEmpty):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidFile):
		return http.StatusBadRequest
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, classifier.ErrUnavailable), errors.Is(err, classifier.ErrInvalidResponse):
		return classifier.MapHTTPStatus(err)
	case errors.Is(err, mapping.ErrTaskNotFound), errors.Is(err, mapping.ErrTaskExists):
		return mapping.MapHTTPStatus(err)
	case errors.Is(err, table.ErrUnknownColumn):
		return table.MapHTTPStatus(err)
	case errors.Is(err, export.ErrUnknownFormat), errors.Is(err, export.ErrUnknownLocale):
		return export.MapHTTPStatus(err)
	case errors.Is(err, ingest.ErrEmpty),
		errors.Is(err, ingest.ErrNoRows),
		errors.Is(err, ingest.ErrMissingColumn),
		errors.Is(err, ingest.ErrEncoding):
		return ingest.MapHTTPStatus(err)
	case errors.Is(err, handlers.ErrInvalidBody):
		return http.StatusBadRequest
	}

	return filter.MapHTTPStatus(err)
}
