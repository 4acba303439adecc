package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error classes. Domain packages wrap these with a specific message so
// handlers can map any error to a status code with errors.Is.
var (
	ErrValidation     = errors.New("validation failed")
	ErrNotFound       = errors.New("not found")
	ErrStateConflict  = errors.New("state conflict")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrTransientStore = errors.New("store unavailable")
)

func Validation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

func NotFound(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNotFound)
}

func StateConflict(msg string) error {
	return fmt.Errorf("%w: %s", ErrStateConflict, msg)
}

// Transient wraps a store/network error so user-facing handlers report 500
// without leaking store internals into the response message.
func Transient(err error) error {
	return fmt.Errorf("%w: %v", ErrTransientStore, err)
}

func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrStateConflict):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
