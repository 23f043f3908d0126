package trade

import (
	"github.com/erp/stockdesk/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type constants
const (
	EventTypeDocumentCreated       = "DocumentCreated"
	EventTypeDocumentStatusChanged = "DocumentStatusChanged"
	EventTypeDocumentConverted     = "DocumentConverted"
)

// DocumentCreatedEvent is raised when a quotation, order or invoice is created
type DocumentCreatedEvent struct {
	shared.BaseDomainEvent
	DocumentType DocumentType    `json:"document_type"`
	Number       string          `json:"number"`
	CustomerID   uuid.UUID       `json:"customer_id"`
	Total        decimal.Decimal `json:"total"`
}

// NewDocumentCreatedEvent creates a new DocumentCreatedEvent
func NewDocumentCreatedEvent(docType DocumentType, id uuid.UUID, doc *Document) *DocumentCreatedEvent {
	return &DocumentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentCreated, string(docType), id),
		DocumentType:    docType,
		Number:          doc.Number,
		CustomerID:      doc.CustomerID,
		Total:           doc.Totals.Total,
	}
}

// DocumentStatusChangedEvent is raised on every lifecycle transition
type DocumentStatusChangedEvent struct {
	shared.BaseDomainEvent
	DocumentType DocumentType `json:"document_type"`
	Number       string       `json:"number"`
	FromStatus   string       `json:"from_status"`
	ToStatus     string       `json:"to_status"`
}

// NewDocumentStatusChangedEvent creates a new DocumentStatusChangedEvent
func NewDocumentStatusChangedEvent(docType DocumentType, id uuid.UUID, number, from, to string) *DocumentStatusChangedEvent {
	return &DocumentStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentStatusChanged, string(docType), id),
		DocumentType:    docType,
		Number:          number,
		FromStatus:      from,
		ToStatus:        to,
	}
}

// DocumentConvertedEvent is raised when a quotation becomes an order or an
// order becomes an invoice
type DocumentConvertedEvent struct {
	shared.BaseDomainEvent
	SourceType   DocumentType `json:"source_type"`
	TargetType   DocumentType `json:"target_type"`
	TargetID     uuid.UUID    `json:"target_id"`
	TargetNumber string       `json:"target_number"`
}

// NewDocumentConvertedEvent creates a new DocumentConvertedEvent
func NewDocumentConvertedEvent(sourceType DocumentType, sourceID uuid.UUID, targetType DocumentType, targetID uuid.UUID, targetNumber string) *DocumentConvertedEvent {
	return &DocumentConvertedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentConverted, string(sourceType), sourceID),
		SourceType:      sourceType,
		TargetType:      targetType,
		TargetID:        targetID,
		TargetNumber:    targetNumber,
	}
}
