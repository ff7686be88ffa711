package apiclient

import "fmt"

// ClientError is a custom error type for API client errors
type ClientError string

// Error implements the error interface
func (e ClientError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrConnection         ClientError = "connection error with the trivia backend"
	ErrNoCSRFToken        ClientError = "could not obtain CSRF token"
	ErrNotFound           ClientError = "user or channel not found"
	ErrUnauthorized       ClientError = "authorization error"
	ErrInvalidData        ClientError = "invalid data sent to the server"
	ErrDuplicateTitle     ClientError = "a trivia with this title already exists"
	ErrUnexpectedResponse ClientError = "unexpected response from server"
	ErrNilConfig          ClientError = "config cannot be nil"
	ErrEmptyBaseURL       ClientError = "base URL cannot be empty"
)

// HTTPError represents a non-2xx response from the backend that is not
// a rate limit. Message carries the server-provided detail when the
// body was parseable.
type HTTPError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// RateLimitError is returned when the backend signals a rate limit or
// when a request is rejected locally because a cool-down window for
// the endpoint is still open.
type RateLimitError struct {
	// WaitSeconds is how long to wait before retrying
	WaitSeconds int

	// Message is the server-provided message, if any
	Message string

	// RetryAfter is the raw Retry-After header value
	RetryAfter string
}

// Error implements the error interface
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded: %s (retry in %ds)", e.Message, e.WaitSeconds)
}
