package invoicing

import (
	"context"

	"github.com/tmsousa/invoicebridge/internal/accounting"
	"github.com/tmsousa/invoicebridge/internal/orders"
)

// fakeAPI implements API with overridable function fields
type fakeAPI struct {
	insertDocumentFunc        func(ctx context.Context, docType string, payload *accounting.DocumentPayload) (int64, error)
	getDocumentFunc           func(ctx context.Context, documentID int64) (*accounting.DocumentRecord, error)
	updateDocumentFunc        func(ctx context.Context, docType string, patch *accounting.DocumentPatch) error
	getPDFLinkFunc            func(ctx context.Context, documentID int64) (string, error)
	getCompanyProfileFunc     func(ctx context.Context) (*accounting.CompanyProfile, error)
	listTaxesFunc             func(ctx context.Context) ([]accounting.Tax, error)
	getProductByReferenceFunc func(ctx context.Context, reference string) (*accounting.Product, error)
	insertProductFunc         func(ctx context.Context, product *accounting.Product) (int64, error)
	getCustomerByVATFunc      func(ctx context.Context, vat string) (*accounting.Customer, error)
	getCustomerByEmailFunc    func(ctx context.Context, email string) (*accounting.Customer, error)
	insertCustomerFunc        func(ctx context.Context, customer *accounting.Customer) (int64, error)
}

func (f *fakeAPI) InsertDocument(ctx context.Context, docType string, payload *accounting.DocumentPayload) (int64, error) {
	if f.insertDocumentFunc != nil {
		return f.insertDocumentFunc(ctx, docType, payload)
	}
	return 1, nil
}

func (f *fakeAPI) GetDocument(ctx context.Context, documentID int64) (*accounting.DocumentRecord, error) {
	if f.getDocumentFunc != nil {
		return f.getDocumentFunc(ctx, documentID)
	}
	return nil, nil
}

func (f *fakeAPI) UpdateDocument(ctx context.Context, docType string, patch *accounting.DocumentPatch) error {
	if f.updateDocumentFunc != nil {
		return f.updateDocumentFunc(ctx, docType, patch)
	}
	return nil
}

func (f *fakeAPI) GetPDFLink(ctx context.Context, documentID int64) (string, error) {
	if f.getPDFLinkFunc != nil {
		return f.getPDFLinkFunc(ctx, documentID)
	}
	return "", nil
}

func (f *fakeAPI) GetCompanyProfile(ctx context.Context) (*accounting.CompanyProfile, error) {
	if f.getCompanyProfileFunc != nil {
		return f.getCompanyProfileFunc(ctx)
	}
	return &accounting.CompanyProfile{}, nil
}

func (f *fakeAPI) ListTaxes(ctx context.Context) ([]accounting.Tax, error) {
	if f.listTaxesFunc != nil {
		return f.listTaxesFunc(ctx)
	}
	return []accounting.Tax{{TaxID: 3, Name: "IVA Normal", Value: 23}}, nil
}

func (f *fakeAPI) GetProductByReference(ctx context.Context, reference string) (*accounting.Product, error) {
	if f.getProductByReferenceFunc != nil {
		return f.getProductByReferenceFunc(ctx, reference)
	}
	return &accounting.Product{ProductID: 77, Reference: reference}, nil
}

func (f *fakeAPI) InsertProduct(ctx context.Context, product *accounting.Product) (int64, error) {
	if f.insertProductFunc != nil {
		return f.insertProductFunc(ctx, product)
	}
	return 78, nil
}

func (f *fakeAPI) GetCustomerByVAT(ctx context.Context, vat string) (*accounting.Customer, error) {
	if f.getCustomerByVATFunc != nil {
		return f.getCustomerByVATFunc(ctx, vat)
	}
	return nil, nil
}

func (f *fakeAPI) GetCustomerByEmail(ctx context.Context, email string) (*accounting.Customer, error) {
	if f.getCustomerByEmailFunc != nil {
		return f.getCustomerByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (f *fakeAPI) InsertCustomer(ctx context.Context, customer *accounting.Customer) (int64, error) {
	if f.insertCustomerFunc != nil {
		return f.insertCustomerFunc(ctx, customer)
	}
	return 55, nil
}

// fakeSource implements OrderSource
type fakeSource struct {
	getByIDFunc      func(ctx context.Context, id int64) (*orders.Order, error)
	markInvoicedFunc func(ctx context.Context, orderID, documentID int64) error

	marked []int64
}

func (f *fakeSource) GetByID(ctx context.Context, id int64) (*orders.Order, error) {
	if f.getByIDFunc != nil {
		return f.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (f *fakeSource) MarkInvoiced(ctx context.Context, orderID, documentID int64) error {
	if f.markInvoicedFunc != nil {
		return f.markInvoicedFunc(ctx, orderID, documentID)
	}
	f.marked = append(f.marked, documentID)
	return nil
}

// fakeProducts implements ProductResolver
type fakeProducts struct {
	resolveFunc func(ctx context.Context, spec ProductSpec) (int64, error)

	specs []ProductSpec
}

func (f *fakeProducts) ResolveOrCreate(ctx context.Context, spec ProductSpec) (int64, error) {
	f.specs = append(f.specs, spec)
	if f.resolveFunc != nil {
		return f.resolveFunc(ctx, spec)
	}
	return 77, nil
}

// fakeCustomers implements CustomerResolver
type fakeCustomers struct {
	resolveFunc func(ctx context.Context, order *orders.Order) (int64, error)
}

func (f *fakeCustomers) ResolveOrCreate(ctx context.Context, order *orders.Order) (int64, error) {
	if f.resolveFunc != nil {
		return f.resolveFunc(ctx, order)
	}
	return 55, nil
}
