package invoicing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tmsousa/invoicebridge/internal/accounting"
	"github.com/tmsousa/invoicebridge/internal/orders"
)

func TestRemoteProductResolver_ExistingProduct(t *testing.T) {
	inserts := 0
	api := &fakeAPI{
		insertProductFunc: func(ctx context.Context, product *accounting.Product) (int64, error) {
			inserts++
			return 78, nil
		},
	}
	resolver := NewRemoteProductResolver(api, zap.NewNop())

	id, err := resolver.ResolveOrCreate(context.Background(), ProductSpec{Reference: "TSHIRT-01"})
	require.NoError(t, err)

	assert.Equal(t, int64(77), id)
	assert.Zero(t, inserts)
}

func TestRemoteProductResolver_CreatesMissingProduct(t *testing.T) {
	var created *accounting.Product
	api := &fakeAPI{
		getProductByReferenceFunc: func(ctx context.Context, reference string) (*accounting.Product, error) {
			return nil, nil
		},
		insertProductFunc: func(ctx context.Context, product *accounting.Product) (int64, error) {
			created = product
			return 78, nil
		},
	}
	resolver := NewRemoteProductResolver(api, zap.NewNop())

	id, err := resolver.ResolveOrCreate(context.Background(), ProductSpec{
		Reference: "TSHIRT-01",
		Name:      "T-Shirt",
		Price:     10.00,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(78), id)
	require.NotNil(t, created)
	assert.Equal(t, "TSHIRT-01", created.Reference)
	assert.Equal(t, "T-Shirt", created.Name)
	assert.Equal(t, 10.00, created.Price)
}

func TestRemoteProductResolver_EmptyCreateResponse(t *testing.T) {
	api := &fakeAPI{
		getProductByReferenceFunc: func(ctx context.Context, reference string) (*accounting.Product, error) {
			return nil, nil
		},
		insertProductFunc: func(ctx context.Context, product *accounting.Product) (int64, error) {
			return 0, nil
		},
	}
	resolver := NewRemoteProductResolver(api, zap.NewNop())

	_, err := resolver.ResolveOrCreate(context.Background(), ProductSpec{Reference: "TSHIRT-01"})

	var writeErr *RemoteWriteError
	require.ErrorAs(t, err, &writeErr)
}

func TestRemoteCustomerResolver_VATLookupWins(t *testing.T) {
	emailLookups := 0
	api := &fakeAPI{
		getCustomerByVATFunc: func(ctx context.Context, vat string) (*accounting.Customer, error) {
			return &accounting.Customer{CustomerID: 12, VAT: vat}, nil
		},
		getCustomerByEmailFunc: func(ctx context.Context, email string) (*accounting.Customer, error) {
			emailLookups++
			return nil, nil
		},
	}
	resolver := NewRemoteCustomerResolver(api, zap.NewNop())

	id, err := resolver.ResolveOrCreate(context.Background(), &orders.Order{
		VATNumber:    "123456789",
		BillingEmail: "buyer@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(12), id)
	assert.Zero(t, emailLookups)
}

func TestRemoteCustomerResolver_EmailFallback(t *testing.T) {
	api := &fakeAPI{
		getCustomerByEmailFunc: func(ctx context.Context, email string) (*accounting.Customer, error) {
			return &accounting.Customer{CustomerID: 13, Email: email}, nil
		},
	}
	resolver := NewRemoteCustomerResolver(api, zap.NewNop())

	id, err := resolver.ResolveOrCreate(context.Background(), &orders.Order{
		BillingEmail: "buyer@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(13), id)
}

func TestRemoteCustomerResolver_CreatesFromBillingAddress(t *testing.T) {
	var created *accounting.Customer
	api := &fakeAPI{
		insertCustomerFunc: func(ctx context.Context, customer *accounting.Customer) (int64, error) {
			created = customer
			return 55, nil
		},
	}
	resolver := NewRemoteCustomerResolver(api, zap.NewNop())

	id, err := resolver.ResolveOrCreate(context.Background(), &orders.Order{
		Number:       "1001",
		VATNumber:    "123456789",
		BillingEmail: "buyer@example.com",
		Billing: orders.Address{
			Name:    "João Silva",
			Line1:   "Rua A 1",
			Line2:   "2 Dto",
			City:    "Lisboa",
			ZipCode: "1000-001",
			Country: "PT",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(55), id)
	require.NotNil(t, created)
	assert.Equal(t, "João Silva", created.Name)
	assert.Equal(t, "Rua A 1 2 Dto", created.Address)
	assert.Equal(t, "123456789", created.VAT)
	assert.Equal(t, int64(1), created.CountryID)
}
