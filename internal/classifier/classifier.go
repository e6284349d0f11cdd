// Package classifier defines the contract with the external field classifier and
// provides mock, HTTP, and LLM-backed implementations plus a batching dispatcher.
//
// Only a mapping id and a field description ever cross this boundary; the
// originating field name stays behind the mapping table.
package classifier

import (
	"context"
	"errors"
	"net/http"
)

// Request is one pseudonymized item submitted for classification.
type Request struct {
	MappingID        int    `json:"mappingId"`
	FieldDescription string `json:"fieldDescription"`
}

// Verdict is the classifier's answer for one mapping id. A non-empty Error
// marks a per-item failure.
type Verdict struct {
	MappingID   int     `json:"mappingId"`
	Level1      string  `json:"level1"`
	Level2      string  `json:"level2"`
	Level3      string  `json:"level3"`
	Level4      string  `json:"level4"`
	Sensitivity string  `json:"sensitivityClassification"`
	Reason      string  `json:"classificationReason,omitempty"`
	Confidence  float64 `json:"confidence,omitempty"`
	Error       string  `json:"error,omitempty"`
}

// Failed reports whether the classifier rejected this item.
func (v Verdict) Failed() bool {
	return v.Error != ""
}

// Classifier labels a batch of requests. Implementations may reorder, drop,
// or fail individual items; transport-level failures return ErrUnavailable.
type Classifier interface {
	Classify(ctx context.Context, reqs []Request) ([]Verdict, error)
}

// Func adapts a function to the Classifier interface.
type Func func(ctx context.Context, reqs []Request) ([]Verdict, error)

func (f Func) Classify(ctx context.Context, reqs []Request) ([]Verdict, error) {
	return f(ctx, reqs)
}

var (
	// ErrUnavailable indicates a timeout or transport failure. Retryable.
	ErrUnavailable = errors.New("classifier unavailable")
	// ErrInvalidResponse indicates the classifier answered with an unusable payload.
	ErrInvalidResponse = errors.New("invalid classifier response")
)

// IsRetryable reports whether err is worth retrying.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// MapHTTPStatus maps classifier errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrInvalidResponse):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
