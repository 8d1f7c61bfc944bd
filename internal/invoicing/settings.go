package invoicing

// Settings is the immutable per-deployment configuration passed into
// each pipeline component. The force override is per-request and is
// passed as an argument, never stored here.
type Settings struct {
	// DocumentType selects the remote document category (e.g. "invoices").
	DocumentType string

	// DocumentSetID is the numbering series new documents are filed under.
	DocumentSetID int64

	// CloseDocument requests reconciliation and auto-close after creation.
	CloseDocument bool

	// SendEmail attaches the billing email as recipient when closing.
	SendEmail bool

	// ShippingInfo enables the delivery block on created documents.
	ShippingInfo bool

	// ExemptionReason is the default free-text justification for lines
	// that carry no tax.
	ExemptionReason string

	// CompanySlug is the precomputed editor URL segment; when empty the
	// slug is fetched from the remote company profile.
	CompanySlug string

	// EditorBaseURL is the root of the human-facing document editor.
	EditorBaseURL string
}
