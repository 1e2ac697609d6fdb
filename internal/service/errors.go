package service

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized matches any APIError with status 401.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrMalformedResponse indicates a response body that is not the expected JSON.
	ErrMalformedResponse = errors.New("malformed response")
)

// APIError is a failure reported by the server, either through a non-2xx
// status or a success:false body.
type APIError struct {
	Status  int
	Message string // server-provided, may be empty
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Status != 0 {
		return fmt.Sprintf("server returned %d %s", e.Status, http.StatusText(e.Status))
	}
	return "request rejected by server"
}

// Is lets errors.Is(err, ErrUnauthorized) match a 401.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// ValidationError is a local input check that failed before any request
// was made. Message is the text shown to the user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ServerMessage returns the server-provided message carried by err, or
// fallback when err is a server failure without one. The second result is
// false when err is not a server failure at all (transport, decoding).
func ServerMessage(err error, fallback string) (string, bool) {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return "", false
	}
	if apiErr.Message != "" {
		return apiErr.Message, true
	}
	return fallback, true
}
