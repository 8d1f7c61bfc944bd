package invoicing

import (
	"fmt"
)

// ConfigurationError reports a missing or invalid required setting.
// Not retryable; the run stops and the operator has to fix the setting.
type ConfigurationError struct {
	Setting string
	Reason  string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invoicing: configuration %q: %s", e.Setting, e.Reason)
}

// DuplicateDocumentError reports that the idempotency gate tripped: a
// document was already generated for the order. Regeneration requires
// an explicit force override.
type DuplicateDocumentError struct {
	OrderNumber string
	DocumentID  int64
}

// Error implements the error interface.
func (e *DuplicateDocumentError) Error() string {
	return fmt.Sprintf(
		"invoicing: a document for order %s was already generated (document %d); repeat the request with force=true to generate it again",
		e.OrderNumber, e.DocumentID)
}

// RemoteWriteError reports a failed or malformed create/update call.
// The wrapped error keeps the transport diagnostics.
type RemoteWriteError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *RemoteWriteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invoicing: %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("invoicing: %s failed", e.Op)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *RemoteWriteError) Unwrap() error {
	return e.Err
}

// ReconciliationError reports that the remote-computed net value does
// not match the source order totals. The document was created but left
// open; this is distinct from a write failure.
type ReconciliationError struct {
	DocumentID int64
	OrderTotal float64
	NetValue   float64
}

// Error implements the error interface.
func (e *ReconciliationError) Error() string {
	return fmt.Sprintf(
		"invoicing: document %d was created but its net value %.2f does not match the order total %.2f; the document was left open",
		e.DocumentID, e.NetValue, e.OrderTotal)
}

// NotFoundError reports that a referenced record does not exist.
type NotFoundError struct {
	Kind string // "order" or "document"
	ID   int64
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("invoicing: %s %d not found", e.Kind, e.ID)
}
