// Package exitcode defines exit codes for the CLI.
package exitcode

import (
	"errors"
	"net/http"

	"mytodo/internal/service"
)

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, failed validation, not found).
	UserError = 1

	// AuthError indicates a missing or rejected session.
	AuthError = 2

	// BackendError indicates a server, network or decoding error.
	BackendError = 3
)

// For maps an error returned by a task list or session operation to an
// exit code.
func For(err error) int {
	if err == nil {
		return Success
	}

	var validation *service.ValidationError
	if errors.As(err, &validation) {
		return UserError
	}
	if errors.Is(err, service.ErrUnauthorized) {
		return AuthError
	}

	var apiErr *service.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status >= http.StatusInternalServerError {
			return BackendError
		}
		// success:false without an error status is the server refusing the input.
		return UserError
	}
	return BackendError
}
