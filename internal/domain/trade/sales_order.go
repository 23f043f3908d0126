package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/stockdesk/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of a sales order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusConfirmed || target == OrderStatusCancelled
	case OrderStatusConfirmed:
		return target == OrderStatusProcessing || target == OrderStatusCancelled
	case OrderStatusProcessing:
		return target == OrderStatusShipped || target == OrderStatusCancelled
	case OrderStatusShipped:
		return target == OrderStatusDelivered
	case OrderStatusDelivered, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// IsInvoiceable reports whether an order in this status may be invoiced
func (s OrderStatus) IsInvoiceable() bool {
	switch s {
	case OrderStatusConfirmed, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered:
		return true
	}
	return false
}

// SalesOrder is a customer order, created directly or from a quotation
type SalesOrder struct {
	shared.BaseAggregateRoot
	Document
	Status       OrderStatus
	QuotationID  *uuid.UUID
	InvoiceID    *uuid.UUID
	ConfirmedAt  *time.Time
	ShippedAt    *time.Time
	DeliveredAt  *time.Time
	CancelledAt  *time.Time
	CancelReason string
}

// NewSalesOrder creates a pending sales order
func NewSalesOrder(number string, customerID uuid.UUID, customerName string) (*SalesOrder, error) {
	doc, err := newDocument(number, customerID, customerName)
	if err != nil {
		return nil, err
	}
	return newSalesOrderFromDocument(doc), nil
}

func newSalesOrderFromDocument(doc Document) *SalesOrder {
	order := &SalesOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Document:          doc,
		Status:            OrderStatusPending,
	}

	order.AddDomainEvent(NewDocumentCreatedEvent(DocumentSalesOrder, order.ID, &order.Document))

	return order
}

// CanModify reports whether items and pricing may change
func (o *SalesOrder) CanModify() bool {
	return o.Status == OrderStatusPending
}

func (o *SalesOrder) ensureModifiable() error {
	if !o.CanModify() {
		return shared.NewDomainError(shared.CodeInvalidState, fmt.Sprintf("Cannot modify order in %s status", o.Status))
	}
	return nil
}

// AddItem adds a line item. Only allowed while pending.
func (o *SalesOrder) AddItem(productID *uuid.UUID, description string, quantity, unitPrice decimal.Decimal) (*LineItem, error) {
	if err := o.ensureModifiable(); err != nil {
		return nil, err
	}
	item, err := o.Document.addItem(productID, description, quantity, unitPrice)
	if err != nil {
		return nil, err
	}
	o.Touch()
	return item, nil
}

// UpdateItem updates a line item. Only allowed while pending.
func (o *SalesOrder) UpdateItem(itemID uuid.UUID, description string, quantity, unitPrice decimal.Decimal) error {
	if err := o.ensureModifiable(); err != nil {
		return err
	}
	if err := o.Document.updateItem(itemID, description, quantity, unitPrice); err != nil {
		return err
	}
	o.Touch()
	return nil
}

// RemoveItem removes a line item. Only allowed while pending.
func (o *SalesOrder) RemoveItem(itemID uuid.UUID) error {
	if err := o.ensureModifiable(); err != nil {
		return err
	}
	if err := o.Document.removeItem(itemID); err != nil {
		return err
	}
	o.Touch()
	return nil
}

// SetPricing sets the tax rate and discount. Only allowed while pending.
func (o *SalesOrder) SetPricing(taxRate decimal.Decimal, discount Discount) error {
	if err := o.ensureModifiable(); err != nil {
		return err
	}
	if err := o.Document.setPricing(taxRate, discount); err != nil {
		return err
	}
	o.Touch()
	return nil
}

// Confirm confirms a pending order. Requires at least one item.
func (o *SalesOrder) Confirm() error {
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot confirm order without items")
	}
	if err := o.transition(OrderStatusConfirmed); err != nil {
		return err
	}
	now := time.Now()
	o.ConfirmedAt = &now
	return nil
}

// StartProcessing moves a confirmed order into fulfilment
func (o *SalesOrder) StartProcessing() error {
	return o.transition(OrderStatusProcessing)
}

// Ship marks the order as shipped
func (o *SalesOrder) Ship() error {
	if err := o.transition(OrderStatusShipped); err != nil {
		return err
	}
	now := time.Now()
	o.ShippedAt = &now
	return nil
}

// Deliver marks the order as delivered
func (o *SalesOrder) Deliver() error {
	if err := o.transition(OrderStatusDelivered); err != nil {
		return err
	}
	now := time.Now()
	o.DeliveredAt = &now
	return nil
}

// Cancel cancels the order. A reason is required.
func (o *SalesOrder) Cancel(reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}
	if err := o.transition(OrderStatusCancelled); err != nil {
		return err
	}
	now := time.Now()
	o.CancelledAt = &now
	o.CancelReason = reason
	return nil
}

func (o *SalesOrder) transition(target OrderStatus) error {
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.CodeInvalidState, fmt.Sprintf("Cannot change order from %s to %s", o.Status, target))
	}
	from := o.Status
	o.Status = target
	o.Touch()

	o.AddDomainEvent(NewDocumentStatusChangedEvent(DocumentSalesOrder, o.ID, o.Number, string(from), string(target)))

	return nil
}

// IsInvoiced reports whether an invoice was already created from this order
func (o *SalesOrder) IsInvoiced() bool {
	return o.InvoiceID != nil
}

// ConvertToInvoice creates the invoice for this order, copying its items by
// value. Each order is invoiced at most once.
func (o *SalesOrder) ConvertToInvoice(invoiceNumber string, dueDate *time.Time) (*Invoice, error) {
	if o.IsInvoiced() {
		return nil, shared.NewDomainError(shared.CodeAlreadyConverted, "Order has already been invoiced")
	}
	if !o.Status.IsInvoiceable() {
		return nil, shared.NewDomainError(shared.CodeInvalidState, fmt.Sprintf("Cannot invoice order in %s status", o.Status))
	}

	doc, err := o.Document.copyFor(invoiceNumber)
	if err != nil {
		return nil, err
	}
	invoice := newInvoiceFromDocument(doc)
	orderID := o.ID
	invoice.OrderID = &orderID
	invoice.DueDate = dueDate

	o.InvoiceID = &invoice.ID
	o.Touch()

	o.AddDomainEvent(NewDocumentConvertedEvent(DocumentSalesOrder, o.ID, DocumentInvoice, invoice.ID, invoice.Number))

	return invoice, nil
}
