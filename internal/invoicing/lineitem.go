package invoicing

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/tmsousa/invoicebridge/internal/accounting"
	"github.com/tmsousa/invoicebridge/internal/orders"
	"go.uber.org/zap"
)

// LineItemBuilder converts one order line, shipping charge or fee into
// a normalized document line. Shipping and fees go through the same
// path as product lines, as synthetic single-quantity lines.
type LineItemBuilder struct {
	taxes    *TaxResolver
	products ProductResolver
	settings Settings
	logger   *zap.Logger
}

// NewLineItemBuilder creates a new line item builder
func NewLineItemBuilder(taxes *TaxResolver, products ProductResolver, settings Settings, logger *zap.Logger) *LineItemBuilder {
	return &LineItemBuilder{
		taxes:    taxes,
		products: products,
		settings: settings,
		logger:   logger,
	}
}

// Build converts one product line into a document line.
//
// The unit price starts at subtotal/qty and is then reduced by the full
// refunded amount; the refunded quantity is subtracted from qty. The
// discount percentage is computed from the pre-refund total/subtotal
// figures, independent of the refund adjustments. Both quirks reproduce
// the upstream accounting behavior and must not be "fixed" here.
func (b *LineItemBuilder) Build(ctx context.Context, line orders.OrderLine, index int) (accounting.PayloadLine, error) {
	var price float64
	if line.Qty != 0 {
		price = line.Subtotal / line.Qty
	}

	qty := line.Qty
	if line.RefundedAmount > 0 {
		// Deliberately not re-divided by qty and not clamped at zero.
		price -= line.RefundedAmount
	}
	if line.RefundedQty > 0 {
		qty -= line.RefundedQty
	}

	productID, err := b.products.ResolveOrCreate(ctx, ProductSpec{
		Reference: b.productReference(line),
		Name:      line.Name,
		Price:     line.Price,
		Summary:   line.VariationText,
	})
	if err != nil {
		return accounting.PayloadLine{}, err
	}

	item := accounting.PayloadLine{
		ProductID: productID,
		Name:      line.Name,
		Summary:   buildSummary(line),
		Qty:       qty,
		Price:     price,
		Discount:  discountPercent(line.Subtotal, line.Total),
		Order:     index,
	}

	for _, bucket := range line.TaxBuckets {
		if bucket.Amount == 0 {
			continue
		}
		rate := ParseRate(bucket.RatePercent)
		if rate <= 0 {
			continue
		}
		taxID, err := b.taxes.Resolve(ctx, rate)
		if err != nil {
			return accounting.PayloadLine{}, err
		}
		item.Taxes = append(item.Taxes, accounting.AppliedTax{TaxID: taxID, Value: rate})
	}

	if len(item.Taxes) == 0 {
		item.ExemptionReason = b.settings.ExemptionReason
	}

	return item, nil
}

// BuildShipping converts the order's shipping charge into a synthetic
// single-quantity line.
func (b *LineItemBuilder) BuildShipping(ctx context.Context, order *orders.Order, index int) (accounting.PayloadLine, error) {
	line := orders.OrderLine{
		SKU:      "portes",
		Name:     shippingName(order.ShippingMethod),
		Qty:      1,
		Subtotal: order.ShippingTotal,
		Total:    order.ShippingTotal,
		Price:    order.ShippingTotal,
	}
	if order.ShippingTaxRate != "" {
		line.TaxBuckets = []orders.TaxBucket{{
			RatePercent: order.ShippingTaxRate,
			Amount:      order.ShippingTotal,
		}}
	}
	return b.Build(ctx, line, index)
}

// BuildFee converts one fee charge into a synthetic single-quantity
// line. Callers skip fees whose absolute total is not positive.
func (b *LineItemBuilder) BuildFee(ctx context.Context, fee orders.FeeLine, index int) (accounting.PayloadLine, error) {
	total := math.Abs(fee.Total)
	line := orders.OrderLine{
		SKU:      "fee-" + slugify(fee.Name),
		Name:     fee.Name,
		Qty:      1,
		Subtotal: total,
		Total:    total,
		Price:    total,
	}
	if fee.RatePercent != "" {
		line.TaxBuckets = []orders.TaxBucket{{
			RatePercent: fee.RatePercent,
			Amount:      total,
		}}
	}
	return b.Build(ctx, line, index)
}

func (b *LineItemBuilder) productReference(line orders.OrderLine) string {
	if line.SKU != "" {
		return line.SKU
	}
	return slugify(line.Name)
}

// discountPercent computes 100 * (1 - total/subtotal), clamped to
// [0, 100]. A zero subtotal means there is nothing to discount.
func discountPercent(subtotal, total float64) float64 {
	if subtotal == 0 {
		return 0
	}
	discount := 100 - (total*100)/subtotal
	if discount < 0 {
		return 0
	}
	if discount > 100 {
		return 100
	}
	return discount
}

// buildSummary joins the variation attribute text and the custom-option
// pairs into the line's free-text summary, newline-separated, dropping
// empty segments.
func buildSummary(line orders.OrderLine) string {
	var parts []string
	if line.VariationText != "" {
		parts = append(parts, line.VariationText)
	}
	for _, opt := range line.Options {
		if opt.Name == "" || opt.Value == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s", opt.Name, opt.Value))
	}
	return strings.Join(parts, "\n")
}

func shippingName(method string) string {
	if method == "" {
		return "Portes de envio"
	}
	return "Portes de envio (" + method + ")"
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastDash := false
	for _, ch := range s {
		switch {
		case (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9'):
			b.WriteRune(ch)
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
