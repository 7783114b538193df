package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	// ErrNotFound marks a 404 from the backend.
	ErrNotFound = errors.New("gateway: not found")
	// ErrUnauthorized marks a 401; the caller's session is no longer valid.
	ErrUnauthorized = errors.New("gateway: unauthorized")
	// ErrUnavailable is returned by decorators that have no inner gateway.
	ErrUnavailable = errors.New("gateway: unavailable")
)

// BackendError is a rejection from the backend: a non-2xx status or a {success:false} envelope.
type BackendError struct {
	StatusCode int
	Message    string
	Body       string
	// Kind is ErrNotFound or ErrUnauthorized when the status maps to one.
	Kind error
}

func (e *BackendError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Body
	}
	if msg == "" {
		msg = "backend request failed"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("gateway: %s (status=%d)", msg, e.StatusCode)
	}
	return "gateway: " + msg
}

func (e *BackendError) Unwrap() error {
	return e.Kind
}

// RateLimitError captures 429 responses from the backend.
type RateLimitError struct {
	Gateway    string
	StatusCode int
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "backend rate limited"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status=%d)", msg, e.StatusCode)
	}
	return msg
}

// AsRateLimitError attempts to unwrap an error into a RateLimitError.
func AsRateLimitError(err error) (*RateLimitError, bool) {
	var rlErr *RateLimitError
	if errors.As(err, &rlErr) {
		return rlErr, true
	}
	return nil, false
}

// AsBackendError attempts to unwrap an error into a BackendError.
func AsBackendError(err error) (*BackendError, bool) {
	var beErr *BackendError
	if errors.As(err, &beErr) {
		return beErr, true
	}
	return nil, false
}

// MessageOf returns the human-readable message the backend attached to err, or
// fallback when there is none.
func MessageOf(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if be, ok := AsBackendError(err); ok && be.Message != "" {
		return be.Message
	}
	if rl, ok := AsRateLimitError(err); ok && rl.Message != "" {
		return rl.Message
	}
	return fallback
}

// Retryable reports whether repeating a read could plausibly succeed.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnauthorized) {
		return false
	}
	if _, ok := AsRateLimitError(err); ok {
		return true
	}
	if be, ok := AsBackendError(err); ok {
		return be.StatusCode >= http.StatusInternalServerError
	}
	return true
}
