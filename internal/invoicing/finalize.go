package invoicing

import (
	"context"
	"math"

	"github.com/tmsousa/invoicebridge/internal/accounting"
	"github.com/tmsousa/invoicebridge/internal/orders"
	"go.uber.org/zap"
)

// netValueTolerance is the largest order-total/net-value difference
// still treated as equal. Half a cent absorbs JSON float round trips
// without masking real pricing mismatches.
const netValueTolerance = 0.005

// FinalizationWorkflow validates the created document's totals against
// the source order and closes it, optionally emailing the customer.
type FinalizationWorkflow struct {
	api      API
	settings Settings
	logger   *zap.Logger
}

// NewFinalizationWorkflow creates a new finalization workflow
func NewFinalizationWorkflow(api API, settings Settings, logger *zap.Logger) *FinalizationWorkflow {
	return &FinalizationWorkflow{api: api, settings: settings, logger: logger}
}

// Finalize re-fetches the created document, reconciles its net value
// against (order total - total refunded), and submits the close update.
// A totals mismatch leaves the document open and is reported as a
// ReconciliationError so the caller can surface it distinctly from a
// write failure.
func (w *FinalizationWorkflow) Finalize(ctx context.Context, documentID int64, order *orders.Order) error {
	record, err := w.api.GetDocument(ctx, documentID)
	if err != nil {
		return &RemoteWriteError{Op: "fetch created document", Err: err}
	}
	if record == nil {
		return &NotFoundError{Kind: "document", ID: documentID}
	}

	expected := order.Total - order.TotalRefunded
	if math.Abs(expected-record.NetValue) > netValueTolerance {
		w.logger.Warn("Document totals do not reconcile",
			zap.Int64("document_id", documentID),
			zap.Float64("order_total", expected),
			zap.Float64("net_value", record.NetValue))
		return &ReconciliationError{
			DocumentID: documentID,
			OrderTotal: expected,
			NetValue:   record.NetValue,
		}
	}

	patch := &accounting.DocumentPatch{
		DocumentID: documentID,
		Status:     accounting.StatusClosed,
	}
	if w.settings.SendEmail {
		patch.SendEmail = []accounting.EmailRecipient{{
			Email:   order.BillingEmail,
			Name:    record.EntityName,
			Message: "",
		}}
	}

	if err := w.api.UpdateDocument(ctx, w.settings.DocumentType, patch); err != nil {
		return &RemoteWriteError{Op: "close document", Err: err}
	}

	w.logger.Info("Document closed",
		zap.Int64("document_id", documentID),
		zap.Bool("email_sent", w.settings.SendEmail))
	return nil
}
