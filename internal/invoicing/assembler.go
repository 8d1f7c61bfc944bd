package invoicing

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/tmsousa/invoicebridge/internal/accounting"
	"github.com/tmsousa/invoicebridge/internal/orders"
	"go.uber.org/zap"
)

// DocumentAssembler aggregates resolved line items, delivery metadata,
// customer notes and document-set configuration into one creation
// payload, and submits it. One assembler run handles exactly one order.
type DocumentAssembler struct {
	api       API
	customers CustomerResolver
	lines     *LineItemBuilder
	source    OrderSource
	settings  Settings
	logger    *zap.Logger
	now       func() time.Time
}

// NewDocumentAssembler creates a new document assembler
func NewDocumentAssembler(
	api API,
	customers CustomerResolver,
	lines *LineItemBuilder,
	source OrderSource,
	settings Settings,
	logger *zap.Logger,
) *DocumentAssembler {
	return &DocumentAssembler{
		api:       api,
		customers: customers,
		lines:     lines,
		source:    source,
		settings:  settings,
		logger:    logger,
		now:       time.Now,
	}
}

// Assemble builds the document-creation payload for an order. Line
// append order is fixed: product lines, then the shipping charge, then
// fees. The idempotency gate runs last, before the caller may submit;
// force skips it.
func (a *DocumentAssembler) Assemble(ctx context.Context, order *orders.Order, force bool) (*accounting.DocumentPayload, error) {
	if a.settings.DocumentSetID <= 0 {
		return nil, &ConfigurationError{
			Setting: "document_set_id",
			Reason:  "document set missing; select a numbering series in the settings",
		}
	}

	customerID, err := a.customers.ResolveOrCreate(ctx, order)
	if err != nil {
		return nil, err
	}

	today := a.now().Format("2006-01-02")
	payload := &accounting.DocumentPayload{
		CustomerID:     customerID,
		DocumentSetID:  a.settings.DocumentSetID,
		YourReference:  "#" + order.Number,
		Date:           today,
		ExpirationDate: today,
		Status:         accounting.StatusDraft,
	}

	index := 0
	for _, line := range order.Lines {
		item, err := a.lines.Build(ctx, line, index)
		if err != nil {
			return nil, err
		}
		payload.Products = append(payload.Products, item)
		index++
	}

	if order.ShippingMethod != "" && order.ShippingTotal > 0 {
		item, err := a.lines.BuildShipping(ctx, order, index)
		if err != nil {
			return nil, err
		}
		payload.Products = append(payload.Products, item)
		index++
	}

	for _, fee := range order.Fees {
		if math.Abs(fee.Total) <= 0 {
			continue
		}
		item, err := a.lines.BuildFee(ctx, fee, index)
		if err != nil {
			return nil, err
		}
		payload.Products = append(payload.Products, item)
		index++
	}

	if a.settings.ShippingInfo {
		if err := a.applyDelivery(ctx, order, payload); err != nil {
			return nil, err
		}
	}

	payload.Notes = strings.Join(order.Notes, "\n")

	if !force && order.Invoiced() {
		return nil, &DuplicateDocumentError{
			OrderNumber: order.Number,
			DocumentID:  order.InvoiceDocumentID,
		}
	}

	return payload, nil
}

// applyDelivery fills the delivery block: departure from the remote
// company profile, destination from the order's shipping address.
func (a *DocumentAssembler) applyDelivery(ctx context.Context, order *orders.Order, payload *accounting.DocumentPayload) error {
	profile, err := a.api.GetCompanyProfile(ctx)
	if err != nil {
		return fmt.Errorf("get company profile: %w", err)
	}

	destinationZip := order.Shipping.ZipCode
	if strings.EqualFold(order.Shipping.Country, "PT") {
		destinationZip = NormalizePostalCode(destinationZip)
	}

	payload.DeliveryMethodID = profile.DeliveryMethodID
	payload.DeliveryDatetime = a.now().Format("2006-01-02 15:04:05")

	payload.DeliveryDepartureAddress = profile.Address
	payload.DeliveryDepartureCity = profile.City
	payload.DeliveryDepartureZipCode = profile.ZipCode
	payload.DeliveryDepartureCountry = profile.CountryID

	payload.DeliveryDestinationAddress = strings.TrimSpace(order.Shipping.Line1 + " " + order.Shipping.Line2)
	payload.DeliveryDestinationCity = order.Shipping.City
	payload.DeliveryDestinationZipCode = destinationZip
	payload.DeliveryDestinationCountry = CountryID(order.Shipping.Country)

	return nil
}

// Submit POSTs the payload to the document-creation endpoint and, on
// success, persists the deduplication marker on the order exactly once.
func (a *DocumentAssembler) Submit(ctx context.Context, order *orders.Order, payload *accounting.DocumentPayload) (int64, error) {
	documentID, err := a.api.InsertDocument(ctx, a.settings.DocumentType, payload)
	if err != nil {
		return 0, &RemoteWriteError{Op: "insert document", Err: err}
	}
	if documentID == 0 {
		return 0, &RemoteWriteError{
			Op:  "insert document",
			Err: fmt.Errorf("no document_id in response"),
		}
	}

	a.logger.Info("Document created",
		zap.String("order_number", order.Number),
		zap.Int64("document_id", documentID))

	// The document exists remotely at this point; a marker write failure
	// is logged loudly instead of failing the run, otherwise the operator
	// would retry and create a duplicate remote document.
	if err := a.source.MarkInvoiced(ctx, order.ID, documentID); err != nil {
		a.logger.Error("Failed to persist deduplication marker",
			zap.Int64("order_id", order.ID),
			zap.Int64("document_id", documentID),
			zap.Error(err))
	}

	return documentID, nil
}
