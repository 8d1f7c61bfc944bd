package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// Repository handles order database operations
type Repository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRepository creates a new order repository
func NewRepository(db *sql.DB, logger *zap.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// GetByID retrieves one order with its lines, fees and notes.
// Returns (nil, nil) when the order does not exist.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Order, error) {
	query := `
		SELECT id, number, status, total, total_refunded, vat_number,
			billing_email, billing_address, shipping_address,
			shipping_method, shipping_total, shipping_tax_rate,
			invoice_document_id, created_at
		FROM orders
		WHERE id = ?
	`

	var (
		order           Order
		billingJSON     string
		shippingJSON    string
		invoiceDocument sql.NullInt64
	)

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.Number,
		&order.Status,
		&order.Total,
		&order.TotalRefunded,
		&order.VATNumber,
		&order.BillingEmail,
		&billingJSON,
		&shippingJSON,
		&order.ShippingMethod,
		&order.ShippingTotal,
		&order.ShippingTaxRate,
		&invoiceDocument,
		&order.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get order", zap.Int64("order_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if invoiceDocument.Valid {
		order.InvoiceDocumentID = invoiceDocument.Int64
	}
	if err := json.Unmarshal([]byte(billingJSON), &order.Billing); err != nil {
		return nil, fmt.Errorf("failed to decode billing address: %w", err)
	}
	if err := json.Unmarshal([]byte(shippingJSON), &order.Shipping); err != nil {
		return nil, fmt.Errorf("failed to decode shipping address: %w", err)
	}

	if order.Lines, err = r.linesByOrderID(ctx, id); err != nil {
		return nil, err
	}
	if order.Fees, err = r.feesByOrderID(ctx, id); err != nil {
		return nil, err
	}
	if order.Notes, err = r.notesByOrderID(ctx, id); err != nil {
		return nil, err
	}

	return &order, nil
}

// ListPending lists completed orders that have no document yet
func (r *Repository) ListPending(ctx context.Context, limit, offset int) ([]*Order, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id
		FROM orders
		WHERE invoice_document_id IS NULL AND status = 'completed'
		ORDER BY created_at
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list pending orders", zap.Error(err))
		return nil, fmt.Errorf("failed to list pending orders: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan order id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]*Order, 0, len(ids))
	for _, id := range ids {
		order, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if order != nil {
			result = append(result, order)
		}
	}
	return result, nil
}

// MarkInvoiced persists the deduplication marker. The WHERE clause makes
// the check-and-set atomic: once the marker is set, further calls match
// no rows and are no-ops.
func (r *Repository) MarkInvoiced(ctx context.Context, orderID, documentID int64) error {
	query := `
		UPDATE orders
		SET invoice_document_id = ?
		WHERE id = ? AND invoice_document_id IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, documentID, orderID)
	if err != nil {
		r.logger.Error("Failed to mark order invoiced",
			zap.Int64("order_id", orderID),
			zap.Int64("document_id", documentID),
			zap.Error(err))
		return fmt.Errorf("failed to mark order invoiced: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		r.logger.Debug("Order already marked invoiced", zap.Int64("order_id", orderID))
	}

	return nil
}

func (r *Repository) linesByOrderID(ctx context.Context, orderID int64) ([]OrderLine, error) {
	query := `
		SELECT id, sku, name, qty, subtotal, total, price, tax_buckets,
			refunded_amount, refunded_qty, variation_text, options
		FROM order_lines
		WHERE order_id = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order lines: %w", err)
	}
	defer rows.Close()

	var lines []OrderLine
	for rows.Next() {
		var (
			line        OrderLine
			bucketsJSON string
			optionsJSON string
		)
		if err := rows.Scan(
			&line.ID,
			&line.SKU,
			&line.Name,
			&line.Qty,
			&line.Subtotal,
			&line.Total,
			&line.Price,
			&bucketsJSON,
			&line.RefundedAmount,
			&line.RefundedQty,
			&line.VariationText,
			&optionsJSON,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}

		if bucketsJSON != "" {
			if err := json.Unmarshal([]byte(bucketsJSON), &line.TaxBuckets); err != nil {
				return nil, fmt.Errorf("failed to decode tax buckets: %w", err)
			}
		}
		if optionsJSON != "" {
			if err := json.Unmarshal([]byte(optionsJSON), &line.Options); err != nil {
				return nil, fmt.Errorf("failed to decode line options: %w", err)
			}
		}

		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *Repository) feesByOrderID(ctx context.Context, orderID int64) ([]FeeLine, error) {
	query := `
		SELECT id, name, total, rate_percent
		FROM order_fees
		WHERE order_id = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order fees: %w", err)
	}
	defer rows.Close()

	var fees []FeeLine
	for rows.Next() {
		var fee FeeLine
		if err := rows.Scan(&fee.ID, &fee.Name, &fee.Total, &fee.RatePercent); err != nil {
			return nil, fmt.Errorf("failed to scan order fee: %w", err)
		}
		fees = append(fees, fee)
	}
	return fees, rows.Err()
}

func (r *Repository) notesByOrderID(ctx context.Context, orderID int64) ([]string, error) {
	query := `
		SELECT content
		FROM order_notes
		WHERE order_id = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order notes: %w", err)
	}
	defer rows.Close()

	var notes []string
	for rows.Next() {
		var note string
		if err := rows.Scan(&note); err != nil {
			return nil, fmt.Errorf("failed to scan order note: %w", err)
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}
