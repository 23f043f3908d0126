package trade

import (
	"fmt"
	"time"

	"github.com/erp/stockdesk/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceStatus represents the status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	switch s {
	case InvoiceStatusDraft:
		return target == InvoiceStatusSent || target == InvoiceStatusCancelled
	case InvoiceStatusSent:
		return target == InvoiceStatusPaid || target == InvoiceStatusOverdue || target == InvoiceStatusCancelled
	case InvoiceStatusOverdue:
		return target == InvoiceStatusPaid || target == InvoiceStatusCancelled
	case InvoiceStatusPaid, InvoiceStatusCancelled:
		return false // Terminal states
	}
	return false
}

// Invoice bills a customer for a sales order
type Invoice struct {
	shared.BaseAggregateRoot
	Document
	Status  InvoiceStatus
	OrderID *uuid.UUID
	DueDate *time.Time
	SentAt  *time.Time
	PaidAt  *time.Time
}

func newInvoiceFromDocument(doc Document) *Invoice {
	invoice := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Document:          doc,
		Status:            InvoiceStatusDraft,
	}

	invoice.AddDomainEvent(NewDocumentCreatedEvent(DocumentInvoice, invoice.ID, &invoice.Document))

	return invoice
}

// Send issues the invoice to the customer
func (i *Invoice) Send() error {
	if err := i.transition(InvoiceStatusSent); err != nil {
		return err
	}
	now := time.Now()
	i.SentAt = &now
	return nil
}

// MarkPaid records payment in full
func (i *Invoice) MarkPaid() error {
	if err := i.transition(InvoiceStatusPaid); err != nil {
		return err
	}
	now := time.Now()
	i.PaidAt = &now
	return nil
}

// MarkOverdue flags a sent invoice whose due date has passed
func (i *Invoice) MarkOverdue() error {
	return i.transition(InvoiceStatusOverdue)
}

// Cancel voids the invoice
func (i *Invoice) Cancel() error {
	return i.transition(InvoiceStatusCancelled)
}

// IsOverdueAt reports whether an unpaid invoice is past its due date at t
func (i *Invoice) IsOverdueAt(t time.Time) bool {
	if i.DueDate == nil || i.Status != InvoiceStatusSent {
		return false
	}
	return t.After(*i.DueDate)
}

func (i *Invoice) transition(target InvoiceStatus) error {
	if !i.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.CodeInvalidState, fmt.Sprintf("Cannot change invoice from %s to %s", i.Status, target))
	}
	from := i.Status
	i.Status = target
	i.Touch()

	i.AddDomainEvent(NewDocumentStatusChangedEvent(DocumentInvoice, i.ID, i.Number, string(from), string(target)))

	return nil
}
