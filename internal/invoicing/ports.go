package invoicing

import (
	"context"

	"github.com/tmsousa/invoicebridge/internal/accounting"
	"github.com/tmsousa/invoicebridge/internal/orders"
)

// API is the slice of the remote invoicing API the pipeline consumes.
// Satisfied by *accounting.Client; faked in tests.
type API interface {
	InsertDocument(ctx context.Context, docType string, payload *accounting.DocumentPayload) (int64, error)
	GetDocument(ctx context.Context, documentID int64) (*accounting.DocumentRecord, error)
	UpdateDocument(ctx context.Context, docType string, patch *accounting.DocumentPatch) error
	GetPDFLink(ctx context.Context, documentID int64) (string, error)
	GetCompanyProfile(ctx context.Context) (*accounting.CompanyProfile, error)
	ListTaxes(ctx context.Context) ([]accounting.Tax, error)
	GetProductByReference(ctx context.Context, reference string) (*accounting.Product, error)
	InsertProduct(ctx context.Context, product *accounting.Product) (int64, error)
	GetCustomerByVAT(ctx context.Context, vat string) (*accounting.Customer, error)
	GetCustomerByEmail(ctx context.Context, email string) (*accounting.Customer, error)
	InsertCustomer(ctx context.Context, customer *accounting.Customer) (int64, error)
}

// OrderSource provides read access to orders and the single write
// access the pipeline needs: setting the deduplication marker.
type OrderSource interface {
	GetByID(ctx context.Context, id int64) (*orders.Order, error)
	MarkInvoiced(ctx context.Context, orderID, documentID int64) error
}

// ProductSpec describes the product a line refers to, keyed by a stable
// external reference.
type ProductSpec struct {
	Reference string
	Name      string
	Price     float64
	Summary   string
}

// ProductResolver resolves or creates the remote product for a line.
type ProductResolver interface {
	ResolveOrCreate(ctx context.Context, spec ProductSpec) (int64, error)
}

// CustomerResolver resolves or creates the remote customer counterpart
// of the order's billing identity.
type CustomerResolver interface {
	ResolveOrCreate(ctx context.Context, order *orders.Order) (int64, error)
}
