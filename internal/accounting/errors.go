package accounting

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when the access token is missing or expired.
var ErrUnauthorized = errors.New("accounting API authorization failed")

// APIError carries the raw request and response of a failed API call so
// the operator can see exactly what was sent and what came back.
type APIError struct {
	Endpoint string
	Status   int
	Sent     []byte
	Received []byte
	Err      error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("accounting: %s failed (status %d): %v", e.Endpoint, e.Status, e.Err)
	}
	return fmt.Sprintf("accounting: %s failed (status %d)", e.Endpoint, e.Status)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *APIError) Unwrap() error {
	return e.Err
}

func newAPIError(endpoint string, status int, sent, received []byte, err error) *APIError {
	return &APIError{
		Endpoint: endpoint,
		Status:   status,
		Sent:     sent,
		Received: received,
		Err:      err,
	}
}
