package common

import (
	"errors"
	"fmt"
)

type APIError struct {
	Status  int            `json:"-"`
	Message string         `json:"error"`
	Fields  map[string]any `json:"fields,omitempty"`
}

func (e APIError) Error() string {
	return e.Message
}

func Errf(status int, format string, args ...any) APIError {
	return APIError{Status: status, Message: fmt.Sprintf(format, args...)}
}

// NewAPIError creates an APIError with status, message, and optional fields
func NewAPIError(status int, message string, fields map[string]any) APIError {
	return APIError{
		Status:  status,
		Message: message,
		Fields:  fields,
	}
}

// ErrNotFound marks a catalog lookup for an id the catalog does not know.
// Distinct from transport failures: callers skip the item instead of
// failing the whole run.
var ErrNotFound = errors.New("not found in catalog")

// UpstreamError wraps a transport or HTTP failure from an external
// collaborator (movie catalog, completion service). Retryable through
// queue redelivery.
type UpstreamError struct {
	Service    string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Service, e.Err)
	}
	return fmt.Sprintf("%s: status %d", e.Service, e.StatusCode)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func Upstreamf(service string, status int, err error) *UpstreamError {
	return &UpstreamError{Service: service, StatusCode: status, Err: err}
}
