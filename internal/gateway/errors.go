package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// NetworkError means no HTTP response was received (connectivity, timeout, cancellation).
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServiceError means the backend answered with a non-success status.
type ServiceError struct {
	Op         string
	StatusCode int
	Message    string // backend "error"/"message" field, when present
	Body       string
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: HTTP %d", e.Op, e.StatusCode)
}

// IsNotFound reports whether the backend no longer knows the resource.
func (e *ServiceError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsNotFound reports whether err is a ServiceError with not-found semantics.
func IsNotFound(err error) bool {
	var se *ServiceError
	return errors.As(err, &se) && se.IsNotFound()
}

// UserMessage returns the backend-provided message if there is one.
func UserMessage(err error) (string, bool) {
	var se *ServiceError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message, true
	}
	return "", false
}
