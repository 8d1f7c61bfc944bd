package orders

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tmsousa/invoicebridge/pkg/database"
)

func setupTestRepo(t *testing.T) *Repository {
	t.Helper()

	logger := zap.NewNop()
	db, err := database.New(database.Config{
		Path:         filepath.Join(t.TempDir(), "orders.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	migrator := database.NewMigrator(db, logger)
	require.NoError(t, migrator.RunMigrations("../../migrations"))

	return NewRepository(db.DB, logger)
}

func insertTestOrder(t *testing.T, repo *Repository, number, status string) int64 {
	t.Helper()

	result, err := repo.db.Exec(`
		INSERT INTO orders (number, status, total, total_refunded, vat_number,
			billing_email, billing_address, shipping_address,
			shipping_method, shipping_total, shipping_tax_rate)
		VALUES (?, ?, 18.00, 0, '123456789', 'buyer@example.com',
			'{"name":"João Silva","line1":"Rua A 1","city":"Lisboa","zip_code":"1000-001","country":"PT"}',
			'{"name":"João Silva","line1":"Av. B 2","city":"Porto","zip_code":"4000-123","country":"PT"}',
			'flat_rate', 5.00, '23%')
	`, number, status)
	require.NoError(t, err)

	id, err := result.LastInsertId()
	require.NoError(t, err)
	return id
}

func TestRepository_GetByID(t *testing.T) {
	repo := setupTestRepo(t)
	orderID := insertTestOrder(t, repo, "1001", "completed")

	_, err := repo.db.Exec(`
		INSERT INTO order_lines (order_id, sku, name, qty, subtotal, total, price,
			tax_buckets, refunded_amount, refunded_qty, variation_text, options)
		VALUES (?, 'TSHIRT-01', 'T-Shirt', 2, 20.00, 18.00, 10.00,
			'[{"rate_percent":"23%","amount":4.14}]', 0, 0, 'Size: M',
			'[{"name":"Engraving","value":"ABC"}]')
	`, orderID)
	require.NoError(t, err)

	_, err = repo.db.Exec(
		`INSERT INTO order_fees (order_id, name, total, rate_percent) VALUES (?, 'Cash on delivery', 2.50, '')`,
		orderID)
	require.NoError(t, err)

	_, err = repo.db.Exec(
		`INSERT INTO order_notes (order_id, content) VALUES (?, 'Ring twice')`,
		orderID)
	require.NoError(t, err)

	order, err := repo.GetByID(context.Background(), orderID)
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Equal(t, "1001", order.Number)
	assert.Equal(t, "123456789", order.VATNumber)
	assert.Equal(t, "Lisboa", order.Billing.City)
	assert.Equal(t, "Porto", order.Shipping.City)
	assert.False(t, order.Invoiced())

	require.Len(t, order.Lines, 1)
	line := order.Lines[0]
	assert.Equal(t, "TSHIRT-01", line.SKU)
	assert.Equal(t, 2.0, line.Qty)
	require.Len(t, line.TaxBuckets, 1)
	assert.Equal(t, "23%", line.TaxBuckets[0].RatePercent)
	assert.Equal(t, 4.14, line.TaxBuckets[0].Amount)
	require.Len(t, line.Options, 1)
	assert.Equal(t, "Engraving", line.Options[0].Name)
	assert.Equal(t, "Size: M", line.VariationText)

	require.Len(t, order.Fees, 1)
	assert.Equal(t, 2.50, order.Fees[0].Total)

	assert.Equal(t, []string{"Ring twice"}, order.Notes)
}

func TestRepository_GetByIDMissing(t *testing.T) {
	repo := setupTestRepo(t)

	order, err := repo.GetByID(context.Background(), 9999)
	require.NoError(t, err)
	assert.Nil(t, order)
}

func TestRepository_MarkInvoicedExactlyOnce(t *testing.T) {
	repo := setupTestRepo(t)
	orderID := insertTestOrder(t, repo, "1001", "completed")

	require.NoError(t, repo.MarkInvoiced(context.Background(), orderID, 501))

	order, err := repo.GetByID(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, int64(501), order.InvoiceDocumentID)

	// A second write matches no rows and leaves the first marker in place.
	require.NoError(t, repo.MarkInvoiced(context.Background(), orderID, 777))

	order, err = repo.GetByID(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, int64(501), order.InvoiceDocumentID)
}

func TestRepository_ListPending(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	pendingID := insertTestOrder(t, repo, "1001", "completed")
	invoicedID := insertTestOrder(t, repo, "1002", "completed")
	insertTestOrder(t, repo, "1003", "processing")

	require.NoError(t, repo.MarkInvoiced(ctx, invoicedID, 501))

	pending, err := repo.ListPending(ctx, 10, 0)
	require.NoError(t, err)

	require.Len(t, pending, 1)
	assert.Equal(t, pendingID, pending[0].ID)
}
