package storage

import (
	"errors"
	"net/http"
	"strings"
)

var (
	ErrNotFound   = errors.New("blob not found")
	ErrEmptyKey   = errors.New("storage key must not be empty")
	ErrInvalidKey = errors.New("invalid storage key")
)

// ValidateKey accepts slash-separated relative keys. Empty segments, "." and
// "..", backslashes, and control characters are rejected.
func ValidateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.ContainsRune(key, '\\') || strings.ContainsFunc(key, func(r rune) bool { return r < 0x20 || r == 0x7f }) {
		return ErrInvalidKey
	}
	for seg := range strings.SplitSeq(key, "/") {
		switch seg {
		case "", ".", "..":
			return ErrInvalidKey
		}
	}
	return nil
}

// validatePrefix accepts an empty prefix or a key prefix ending in "/".
func validatePrefix(prefix string) error {
	if prefix == "" {
		return nil
	}
	if !strings.HasSuffix(prefix, "/") {
		return ErrInvalidKey
	}
	return ValidateKey(strings.TrimSuffix(prefix, "/"))
}

// MapHTTPStatus maps storage errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmptyKey), errors.Is(err, ErrInvalidKey):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
