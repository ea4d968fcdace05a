package errors

import (
	"fmt"
	"net/http"
)

// NetworkError carries the diagnostic payload of a failed request to the
// template host. It matches ErrNetwork through errors.Is.
type NetworkError struct {
	// URL is the request URL.
	URL string
	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int
	// Header holds the response headers, if a response was received.
	Header http.Header
	// Body is the response body, already truncated by the caller.
	Body string
	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s: %s returned %d: %v", ErrNetwork, e.URL, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: %s returned %d", ErrNetwork, e.URL, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", ErrNetwork, e.URL, e.Err)
	default:
		return fmt.Sprintf("%s: %s", ErrNetwork, e.URL)
	}
}

// Unwrap returns the underlying cause.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrNetwork.
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// Truncate shortens s to at most limit bytes.
func Truncate(s string, limit int) string {
	if limit < 0 || len(s) <= limit {
		return s
	}
	return s[:limit]
}
