package client

import (
	"errors"
	"fmt"
)

// APIError represents a non-2xx HTTP response from the API. Message carries
// the server's human-readable error when one was provided.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// DecodeError represents a 2xx response whose body could not be parsed
// into the expected shape.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsStatus returns true if err (or any wrapped error) is an APIError with
// the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == code
	}
	return false
}

// IsDecode returns true if err (or any wrapped error) is a DecodeError.
func IsDecode(err error) bool {
	var decErr *DecodeError
	return errors.As(err, &decErr)
}

// Message returns the server-provided error message if err carries one,
// else the empty string. Used by the UI to show transient failure notices.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
