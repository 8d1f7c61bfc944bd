package orders

import "time"

// Address is a billing or shipping address attached to an order
type Address struct {
	Name    string `json:"name"`
	Line1   string `json:"line1"`
	Line2   string `json:"line2,omitempty"`
	City    string `json:"city"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"` // ISO 3166-1 alpha-2
}

// LineOption is one custom option (name/value pair) chosen on a line
type LineOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// TaxBucket is the amount of one tax rate charged on a line subtotal
type TaxBucket struct {
	RatePercent string  `json:"rate_percent"` // stored as the host records it, e.g. "23%"
	Amount      float64 `json:"amount"`
}

// OrderLine is one product line of an order
type OrderLine struct {
	ID             int64        `json:"id"`
	SKU            string       `json:"sku"` // stable external product reference
	Name           string       `json:"name"`
	Qty            float64      `json:"qty"`
	Subtotal       float64      `json:"subtotal"` // pre-discount
	Total          float64      `json:"total"`    // post-discount
	Price          float64      `json:"price"`    // catalogue unit price
	TaxBuckets     []TaxBucket  `json:"tax_buckets,omitempty"`
	RefundedAmount float64      `json:"refunded_amount"`
	RefundedQty    float64      `json:"refunded_qty"`
	VariationText  string       `json:"variation_text,omitempty"`
	Options        []LineOption `json:"options,omitempty"`
}

// FeeLine is one extra charge on an order
type FeeLine struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Total       float64 `json:"total"`
	RatePercent string  `json:"rate_percent,omitempty"`
}

// Order is the read-only order view consumed by the invoicing core.
// InvoiceDocumentID is the deduplication marker: non-zero means a
// document was already generated for this order.
type Order struct {
	ID              int64       `json:"id"`
	Number          string      `json:"number"`
	Status          string      `json:"status"`
	Total           float64     `json:"total"`
	TotalRefunded   float64     `json:"total_refunded"`
	VATNumber       string      `json:"vat_number,omitempty"`
	BillingEmail    string      `json:"billing_email"`
	Billing         Address     `json:"billing"`
	Shipping        Address     `json:"shipping"`
	ShippingMethod  string      `json:"shipping_method,omitempty"`
	ShippingTotal   float64     `json:"shipping_total"`
	ShippingTaxRate string      `json:"shipping_tax_rate,omitempty"`
	Lines           []OrderLine `json:"lines"`
	Fees            []FeeLine   `json:"fees,omitempty"`
	Notes           []string    `json:"notes,omitempty"`

	InvoiceDocumentID int64     `json:"invoice_document_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// Invoiced reports whether a document was already generated for this order
func (o *Order) Invoiced() bool {
	return o.InvoiceDocumentID > 0
}
