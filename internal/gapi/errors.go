// Package gapi provides the HTTP core shared by the Google Drive and
// Google Photos clients: request construction, bearer authentication,
// bounded retry on transient statuses, and error classification.
package gapi

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for HTTP status code classification.
// Use errors.Is(err, gapi.ErrNotFound) to check.
var (
	ErrBadRequest   = errors.New("gapi: bad request")
	ErrUnauthorized = errors.New("gapi: unauthorized")
	ErrForbidden    = errors.New("gapi: forbidden")
	ErrNotFound     = errors.New("gapi: not found")
	ErrServerError  = errors.New("gapi: server error")
	ErrBadStatus    = errors.New("gapi: unexpected status")

	// ErrRetriesExhausted marks a transient failure that survived every
	// retry attempt. Callers use it to tell a dead subtree apart from a
	// non-retryable error.
	ErrRetriesExhausted = errors.New("gapi: retries exhausted")
)

// APIError wraps a sentinel error with the HTTP status code and the API
// error message body for debugging.
type APIError struct {
	StatusCode int
	Message    string
	Err        error // sentinel, for errors.Is()
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gapi: HTTP %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// classifyStatus maps a non-retryable HTTP status code to a sentinel error.
func classifyStatus(code int) error {
	switch code {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	default:
		if code >= http.StatusInternalServerError {
			return ErrServerError
		}

		return ErrBadStatus
	}
}

// isRetryable reports whether the given HTTP status code should be retried.
// Google's APIs signal transient failures with exactly these three codes.
func isRetryable(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusServiceUnavailable:
		return true
	default:
		return false
	}
}
