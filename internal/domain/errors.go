package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates a missing or unusable identity
	UnauthorizedError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }

func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidReference indicates a folder or document that points at a
	// parent or sector it cannot belong to (missing sector, parent in a
	// different sector, folder/sector mismatch).
	ErrInvalidReference = errors.New("invalid reference")

	// ErrContentUnavailable indicates a document whose file reference can no
	// longer be resolved, e.g. a transient reference from a previous run.
	// Consumers render this as a display state, not a failure.
	ErrContentUnavailable = errors.New("content unavailable")

	// ErrNoSession indicates store access without an acting identity.
	ErrNoSession = errors.New("no active session")
)
