// Package apperrors provides the standard error types used across the
// Courtside client.
package apperrors

import (
	"errors"
	"fmt"
)

// Error is a classified client error.
type Error struct {
	// Code is a stable machine-readable code (e.g. "network_failure").
	Code string `json:"code"`
	// Message is a human-readable message suitable for display.
	Message string `json:"message"`
	// StatusCode is the HTTP status for server errors, 0 otherwise.
	StatusCode int `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Code, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is makes sentinel matching work through wrapping: two *Error values match
// when their codes match, so callers can errors.Is against the sentinels
// below regardless of the wrapped message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Standard error definitions
var (
	// ErrNetwork is returned when the remote API could not be reached.
	ErrNetwork = &Error{
		Code:    "network_failure",
		Message: "Could not reach the server",
	}

	// ErrServer is returned when the remote API responded with a failure status.
	ErrServer = &Error{
		Code:    "server_error",
		Message: "The server reported an error",
	}

	// ErrMalformedResponse is returned when a success response could not be parsed.
	ErrMalformedResponse = &Error{
		Code:    "malformed_response",
		Message: "The server response could not be understood",
	}

	// ErrInvalidCredentials is returned when a login is rejected.
	ErrInvalidCredentials = &Error{
		Code:    "invalid_credentials",
		Message: "Invalid username or password",
	}

	// ErrToggleInProgress is returned when a favorite toggle is already in
	// flight for the same team.
	ErrToggleInProgress = &Error{
		Code:    "toggle_in_progress",
		Message: "A favorite update for this team is already in progress",
	}

	// ErrStorage is returned when durable local storage fails.
	ErrStorage = &Error{
		Code:    "storage_failure",
		Message: "Local storage failed",
	}
)

// NewServerError creates a server error carrying the remote status and message.
func NewServerError(statusCode int, message string) *Error {
	if message == "" {
		message = ErrServer.Message
	}
	return &Error{
		Code:       ErrServer.Code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NewMalformedError creates a malformed-response error with a custom message.
func NewMalformedError(message string) *Error {
	return &Error{
		Code:    ErrMalformedResponse.Code,
		Message: message,
	}
}

// AsError converts err to *Error if one is in its chain.
func AsError(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// UserMessage returns the display message for err, falling back to a
// generic notice for unclassified errors.
func UserMessage(err error) string {
	if appErr, ok := AsError(err); ok {
		return appErr.Message
	}
	return "Something went wrong"
}
