package trade

import (
	"fmt"
	"time"

	"github.com/erp/stockdesk/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuotationStatus represents the status of a quotation
type QuotationStatus string

const (
	QuotationStatusDraft    QuotationStatus = "draft"
	QuotationStatusSent     QuotationStatus = "sent"
	QuotationStatusAccepted QuotationStatus = "accepted"
	QuotationStatusRejected QuotationStatus = "rejected"
	QuotationStatusExpired  QuotationStatus = "expired"
)

// IsValid checks if the status is a valid QuotationStatus
func (s QuotationStatus) IsValid() bool {
	switch s {
	case QuotationStatusDraft, QuotationStatusSent, QuotationStatusAccepted, QuotationStatusRejected, QuotationStatusExpired:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s QuotationStatus) CanTransitionTo(target QuotationStatus) bool {
	switch s {
	case QuotationStatusDraft:
		return target == QuotationStatusSent || target == QuotationStatusExpired
	case QuotationStatusSent:
		return target == QuotationStatusAccepted || target == QuotationStatusRejected || target == QuotationStatusExpired
	case QuotationStatusAccepted, QuotationStatusRejected, QuotationStatusExpired:
		return false // Terminal states
	}
	return false
}

// Quotation is a priced offer to a customer that may become a sales order
type Quotation struct {
	shared.BaseAggregateRoot
	Document
	Status           QuotationStatus
	ValidUntil       *time.Time
	SentAt           *time.Time
	DecidedAt        *time.Time
	ConvertedOrderID *uuid.UUID
}

// NewQuotation creates a draft quotation
func NewQuotation(number string, customerID uuid.UUID, customerName string) (*Quotation, error) {
	doc, err := newDocument(number, customerID, customerName)
	if err != nil {
		return nil, err
	}

	q := &Quotation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Document:          doc,
		Status:            QuotationStatusDraft,
	}

	q.AddDomainEvent(NewDocumentCreatedEvent(DocumentQuotation, q.ID, &q.Document))

	return q, nil
}

// CanModify reports whether items and pricing may change
func (q *Quotation) CanModify() bool {
	return q.Status == QuotationStatusDraft
}

func (q *Quotation) ensureModifiable() error {
	if !q.CanModify() {
		return shared.NewDomainError(shared.CodeInvalidState, fmt.Sprintf("Cannot modify quotation in %s status", q.Status))
	}
	return nil
}

// AddItem adds a line item. Only allowed in draft status.
func (q *Quotation) AddItem(productID *uuid.UUID, description string, quantity, unitPrice decimal.Decimal) (*LineItem, error) {
	if err := q.ensureModifiable(); err != nil {
		return nil, err
	}
	item, err := q.Document.addItem(productID, description, quantity, unitPrice)
	if err != nil {
		return nil, err
	}
	q.Touch()
	return item, nil
}

// UpdateItem updates a line item. Only allowed in draft status.
func (q *Quotation) UpdateItem(itemID uuid.UUID, description string, quantity, unitPrice decimal.Decimal) error {
	if err := q.ensureModifiable(); err != nil {
		return err
	}
	if err := q.Document.updateItem(itemID, description, quantity, unitPrice); err != nil {
		return err
	}
	q.Touch()
	return nil
}

// RemoveItem removes a line item. Only allowed in draft status.
func (q *Quotation) RemoveItem(itemID uuid.UUID) error {
	if err := q.ensureModifiable(); err != nil {
		return err
	}
	if err := q.Document.removeItem(itemID); err != nil {
		return err
	}
	q.Touch()
	return nil
}

// SetPricing sets the tax rate and discount. Only allowed in draft status.
func (q *Quotation) SetPricing(taxRate decimal.Decimal, discount Discount) error {
	if err := q.ensureModifiable(); err != nil {
		return err
	}
	if err := q.Document.setPricing(taxRate, discount); err != nil {
		return err
	}
	q.Touch()
	return nil
}

// SetValidUntil sets the offer expiry date
func (q *Quotation) SetValidUntil(validUntil *time.Time) error {
	if err := q.ensureModifiable(); err != nil {
		return err
	}
	q.ValidUntil = validUntil
	q.Touch()
	return nil
}

// Send marks the quotation as sent to the customer
func (q *Quotation) Send() error {
	if len(q.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot send a quotation without items")
	}
	if err := q.transition(QuotationStatusSent); err != nil {
		return err
	}
	now := time.Now()
	q.SentAt = &now
	return nil
}

// Accept records the customer's acceptance
func (q *Quotation) Accept() error {
	if err := q.transition(QuotationStatusAccepted); err != nil {
		return err
	}
	now := time.Now()
	q.DecidedAt = &now
	return nil
}

// Reject records the customer's rejection
func (q *Quotation) Reject() error {
	if err := q.transition(QuotationStatusRejected); err != nil {
		return err
	}
	now := time.Now()
	q.DecidedAt = &now
	return nil
}

// Expire closes the quotation without a decision
func (q *Quotation) Expire() error {
	return q.transition(QuotationStatusExpired)
}

// IsExpiredAt reports whether the validity date has passed at t
func (q *Quotation) IsExpiredAt(t time.Time) bool {
	return q.ValidUntil != nil && t.After(*q.ValidUntil)
}

func (q *Quotation) transition(target QuotationStatus) error {
	if !q.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.CodeInvalidState, fmt.Sprintf("Cannot change quotation from %s to %s", q.Status, target))
	}
	from := q.Status
	q.Status = target
	q.Touch()

	q.AddDomainEvent(NewDocumentStatusChangedEvent(DocumentQuotation, q.ID, q.Number, string(from), string(target)))

	return nil
}

// IsConverted reports whether a sales order was already created from this quotation
func (q *Quotation) IsConverted() bool {
	return q.ConvertedOrderID != nil
}

// ConvertToOrder creates the sales order for this quotation, copying its
// items by value. A sent quotation is accepted as part of the conversion.
// Each quotation converts at most once.
func (q *Quotation) ConvertToOrder(orderNumber string) (*SalesOrder, error) {
	if q.IsConverted() {
		return nil, shared.NewDomainError(shared.CodeAlreadyConverted, "Quotation has already been converted to an order")
	}
	if q.Status != QuotationStatusAccepted && q.Status != QuotationStatusSent {
		return nil, shared.NewDomainError(shared.CodeInvalidState, fmt.Sprintf("Cannot convert quotation in %s status", q.Status))
	}
	if len(q.Items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Cannot convert a quotation without items")
	}

	doc, err := q.Document.copyFor(orderNumber)
	if err != nil {
		return nil, err
	}
	order := newSalesOrderFromDocument(doc)
	quotationID := q.ID
	order.QuotationID = &quotationID

	if q.Status == QuotationStatusSent {
		if err := q.Accept(); err != nil {
			return nil, err
		}
	}
	q.ConvertedOrderID = &order.ID
	q.Touch()

	q.AddDomainEvent(NewDocumentConvertedEvent(DocumentQuotation, q.ID, DocumentSalesOrder, order.ID, order.Number))

	return order, nil
}
