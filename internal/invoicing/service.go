package invoicing

import (
	"context"

	"go.uber.org/zap"
)

// GenerateResult is the terminal outcome of one document-generation run.
// A set FinalizeErr with a non-zero DocumentID means the document was
// created but left open; that is a valid terminal state, distinct from
// full success.
type GenerateResult struct {
	DocumentID  int64
	Closed      bool
	FinalizeErr error
}

// Service drives one document-generation run end to end: load order,
// assemble, submit, then optionally finalize. Steps never reorder;
// every remote call blocks and no write is retried here.
type Service struct {
	source    OrderSource
	assembler *DocumentAssembler
	finalizer *FinalizationWorkflow
	settings  Settings
	logger    *zap.Logger
}

// NewService creates a new invoicing service
func NewService(
	source OrderSource,
	assembler *DocumentAssembler,
	finalizer *FinalizationWorkflow,
	settings Settings,
	logger *zap.Logger,
) *Service {
	return &Service{
		source:    source,
		assembler: assembler,
		finalizer: finalizer,
		settings:  settings,
		logger:    logger,
	}
}

// Generate creates the document for one order. force skips the
// idempotency gate and allows a second document for the same order.
func (s *Service) Generate(ctx context.Context, orderID int64, force bool) (*GenerateResult, error) {
	order, err := s.source.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, &NotFoundError{Kind: "order", ID: orderID}
	}

	s.logger.Info("Generating document",
		zap.Int64("order_id", orderID),
		zap.String("order_number", order.Number),
		zap.Bool("force", force))

	payload, err := s.assembler.Assemble(ctx, order, force)
	if err != nil {
		return nil, err
	}

	documentID, err := s.assembler.Submit(ctx, order, payload)
	if err != nil {
		return nil, err
	}

	result := &GenerateResult{DocumentID: documentID}

	if s.settings.CloseDocument {
		if err := s.finalizer.Finalize(ctx, documentID, order); err != nil {
			result.FinalizeErr = err
			return result, nil
		}
		result.Closed = true
	}

	return result, nil
}
