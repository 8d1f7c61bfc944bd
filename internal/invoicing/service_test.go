package invoicing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tmsousa/invoicebridge/internal/accounting"
	"github.com/tmsousa/invoicebridge/internal/orders"
)

func newTestService(api *fakeAPI, source *fakeSource, settings Settings) *Service {
	logger := zap.NewNop()
	lines := NewLineItemBuilder(NewTaxResolver(api, logger), &fakeProducts{}, settings, logger)
	assembler := NewDocumentAssembler(api, &fakeCustomers{}, lines, source, settings, logger)
	assembler.now = func() time.Time { return time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC) }
	finalizer := NewFinalizationWorkflow(api, settings, logger)
	return NewService(source, assembler, finalizer, settings, logger)
}

func TestService_Generate(t *testing.T) {
	source := &fakeSource{
		getByIDFunc: func(ctx context.Context, id int64) (*orders.Order, error) {
			return testOrder(), nil
		},
	}
	api := &fakeAPI{
		insertDocumentFunc: func(ctx context.Context, docType string, payload *accounting.DocumentPayload) (int64, error) {
			return 501, nil
		},
	}
	service := newTestService(api, source, Settings{
		DocumentType:    "invoices",
		DocumentSetID:   9,
		ExemptionReason: "M07",
	})

	result, err := service.Generate(context.Background(), 42, false)
	require.NoError(t, err)

	assert.Equal(t, int64(501), result.DocumentID)
	assert.False(t, result.Closed)
	assert.NoError(t, result.FinalizeErr)
	assert.Equal(t, []int64{501}, source.marked)
}

func TestService_GenerateAndClose(t *testing.T) {
	source := &fakeSource{
		getByIDFunc: func(ctx context.Context, id int64) (*orders.Order, error) {
			return testOrder(), nil
		},
	}
	api := &fakeAPI{
		insertDocumentFunc: func(ctx context.Context, docType string, payload *accounting.DocumentPayload) (int64, error) {
			return 501, nil
		},
		getDocumentFunc: func(ctx context.Context, documentID int64) (*accounting.DocumentRecord, error) {
			return &accounting.DocumentRecord{DocumentID: documentID, NetValue: 18.00}, nil
		},
	}
	service := newTestService(api, source, Settings{
		DocumentType:    "invoices",
		DocumentSetID:   9,
		CloseDocument:   true,
		ExemptionReason: "M07",
	})

	result, err := service.Generate(context.Background(), 42, false)
	require.NoError(t, err)

	assert.Equal(t, int64(501), result.DocumentID)
	assert.True(t, result.Closed)
	assert.NoError(t, result.FinalizeErr)
}

func TestService_FinalizeFailureIsNotFatal(t *testing.T) {
	source := &fakeSource{
		getByIDFunc: func(ctx context.Context, id int64) (*orders.Order, error) {
			return testOrder(), nil
		},
	}
	api := &fakeAPI{
		insertDocumentFunc: func(ctx context.Context, docType string, payload *accounting.DocumentPayload) (int64, error) {
			return 501, nil
		},
		getDocumentFunc: func(ctx context.Context, documentID int64) (*accounting.DocumentRecord, error) {
			return &accounting.DocumentRecord{DocumentID: documentID, NetValue: 99.00}, nil
		},
	}
	service := newTestService(api, source, Settings{
		DocumentType:    "invoices",
		DocumentSetID:   9,
		CloseDocument:   true,
		ExemptionReason: "M07",
	})

	result, err := service.Generate(context.Background(), 42, false)

	// The document exists; the run reports the open document, not a failure.
	require.NoError(t, err)
	assert.Equal(t, int64(501), result.DocumentID)
	assert.False(t, result.Closed)

	var recErr *ReconciliationError
	require.ErrorAs(t, result.FinalizeErr, &recErr)
}

func TestService_OrderNotFound(t *testing.T) {
	service := newTestService(&fakeAPI{}, &fakeSource{}, Settings{DocumentSetID: 9})

	_, err := service.Generate(context.Background(), 42, false)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "order", notFound.Kind)
	assert.Equal(t, int64(42), notFound.ID)
}

func TestService_DuplicatePropagates(t *testing.T) {
	inserts := 0
	source := &fakeSource{
		getByIDFunc: func(ctx context.Context, id int64) (*orders.Order, error) {
			order := testOrder()
			order.InvoiceDocumentID = 333
			return order, nil
		},
	}
	api := &fakeAPI{
		insertDocumentFunc: func(ctx context.Context, docType string, payload *accounting.DocumentPayload) (int64, error) {
			inserts++
			return 502, nil
		},
	}
	service := newTestService(api, source, Settings{
		DocumentType:    "invoices",
		DocumentSetID:   9,
		ExemptionReason: "M07",
	})

	_, err := service.Generate(context.Background(), 42, false)

	var dupErr *DuplicateDocumentError
	require.ErrorAs(t, err, &dupErr)
	assert.Zero(t, inserts)

	// force bypasses the gate end to end.
	result, err := service.Generate(context.Background(), 42, true)
	require.NoError(t, err)
	assert.Equal(t, int64(502), result.DocumentID)
	assert.Equal(t, 1, inserts)
}
