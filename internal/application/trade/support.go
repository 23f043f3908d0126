package trade

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/erp/stockdesk/internal/domain/shared"
	"github.com/erp/stockdesk/internal/domain/trade"
	"github.com/erp/stockdesk/internal/infrastructure/telemetry"
)

// documentSupport carries the collaborators shared by the document services
type documentSupport struct {
	txScope        TransactionScope
	numberer       *DocumentNumberer
	eventPublisher shared.EventPublisher
	metrics        *telemetry.InventoryMetrics
	logger         *zap.Logger
}

func newDocumentSupport(txScope TransactionScope, logger *zap.Logger) documentSupport {
	if logger == nil {
		logger = zap.NewNop()
	}
	return documentSupport{
		txScope:  txScope,
		numberer: NewDocumentNumberer(),
		logger:   logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *documentSupport) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetInventoryMetrics sets the metrics collector
func (s *documentSupport) SetInventoryMetrics(metrics *telemetry.InventoryMetrics) {
	s.metrics = metrics
}

// publishEvents drains and publishes the pending events of the aggregates.
// Publish failures are logged; the state change is already committed.
func (s *documentSupport) publishEvents(ctx context.Context, aggregates ...shared.AggregateRoot) {
	var events []shared.DomainEvent
	for _, agg := range aggregates {
		events = append(events, agg.GetDomainEvents()...)
		agg.ClearDomainEvents()
	}
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish trade events", zap.Error(err))
	}
}

func (s *documentSupport) recordCreated(ctx context.Context, docType trade.DocumentType) {
	if s.metrics != nil {
		s.metrics.RecordDocumentCreated(ctx, docType)
	}
}

// notFound maps a repository miss to a typed not-found error for docType
func notFound(err error, docType trade.DocumentType) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewDomainError(shared.CodeNotFound, documentLabel(docType)+" not found")
	}
	return err
}

func documentLabel(docType trade.DocumentType) string {
	switch docType {
	case trade.DocumentQuotation:
		return "Quotation"
	case trade.DocumentSalesOrder:
		return "Sales order"
	case trade.DocumentInvoice:
		return "Invoice"
	}
	return "Document"
}

// addItems appends the request items through add, stopping at the first error
func addItems(items []LineItemInput, add func(LineItemInput) error) error {
	for _, item := range items {
		if err := add(item); err != nil {
			return err
		}
	}
	return nil
}
