package invoicing

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmsousa/invoicebridge/internal/accounting"
	"github.com/tmsousa/invoicebridge/internal/orders"
	"go.uber.org/zap"
)

// RemoteProductResolver resolves products against the remote catalogue:
// lookup by stable reference, create when absent.
type RemoteProductResolver struct {
	api    API
	logger *zap.Logger
}

// NewRemoteProductResolver creates a product resolver backed by the remote API
func NewRemoteProductResolver(api API, logger *zap.Logger) *RemoteProductResolver {
	return &RemoteProductResolver{api: api, logger: logger}
}

// ResolveOrCreate returns the remote product id for the spec, creating
// the product when the reference is unknown remotely.
func (r *RemoteProductResolver) ResolveOrCreate(ctx context.Context, spec ProductSpec) (int64, error) {
	product, err := r.api.GetProductByReference(ctx, spec.Reference)
	if err != nil {
		return 0, fmt.Errorf("lookup product %q: %w", spec.Reference, err)
	}
	if product != nil {
		return product.ProductID, nil
	}

	r.logger.Info("Creating remote product",
		zap.String("reference", spec.Reference),
		zap.String("name", spec.Name))

	id, err := r.api.InsertProduct(ctx, &accounting.Product{
		Reference: spec.Reference,
		Name:      spec.Name,
		Price:     spec.Price,
		Summary:   spec.Summary,
	})
	if err != nil {
		return 0, &RemoteWriteError{Op: "create product " + spec.Reference, Err: err}
	}
	if id == 0 {
		return 0, &RemoteWriteError{
			Op:  "create product " + spec.Reference,
			Err: fmt.Errorf("no product_id in response"),
		}
	}
	return id, nil
}

// RemoteCustomerResolver resolves the order's customer against the
// remote system: by VAT number, then by billing email, creating the
// customer from the billing address when both lookups miss.
type RemoteCustomerResolver struct {
	api    API
	logger *zap.Logger
}

// NewRemoteCustomerResolver creates a customer resolver backed by the remote API
func NewRemoteCustomerResolver(api API, logger *zap.Logger) *RemoteCustomerResolver {
	return &RemoteCustomerResolver{api: api, logger: logger}
}

// ResolveOrCreate returns the remote customer id for the order
func (r *RemoteCustomerResolver) ResolveOrCreate(ctx context.Context, order *orders.Order) (int64, error) {
	if order.VATNumber != "" {
		customer, err := r.api.GetCustomerByVAT(ctx, order.VATNumber)
		if err != nil {
			return 0, fmt.Errorf("lookup customer by vat: %w", err)
		}
		if customer != nil {
			return customer.CustomerID, nil
		}
	}

	if order.BillingEmail != "" {
		customer, err := r.api.GetCustomerByEmail(ctx, order.BillingEmail)
		if err != nil {
			return 0, fmt.Errorf("lookup customer by email: %w", err)
		}
		if customer != nil {
			return customer.CustomerID, nil
		}
	}

	r.logger.Info("Creating remote customer",
		zap.String("order_number", order.Number),
		zap.String("email", order.BillingEmail))

	address := strings.TrimSpace(order.Billing.Line1 + " " + order.Billing.Line2)
	id, err := r.api.InsertCustomer(ctx, &accounting.Customer{
		VAT:       order.VATNumber,
		Name:      order.Billing.Name,
		Email:     order.BillingEmail,
		Address:   address,
		City:      order.Billing.City,
		ZipCode:   order.Billing.ZipCode,
		CountryID: CountryID(order.Billing.Country),
	})
	if err != nil {
		return 0, &RemoteWriteError{Op: "create customer", Err: err}
	}
	if id == 0 {
		return 0, &RemoteWriteError{Op: "create customer", Err: fmt.Errorf("no customer_id in response")}
	}
	return id, nil
}
