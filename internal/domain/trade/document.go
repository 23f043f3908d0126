package trade

import (
	"strings"

	"github.com/erp/stockdesk/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentType names the kind of trade document
type DocumentType string

const (
	DocumentQuotation  DocumentType = "quotation"
	DocumentSalesOrder DocumentType = "sales_order"
	DocumentInvoice    DocumentType = "invoice"
)

// Document is the header shared by quotations, orders and invoices. It owns
// its line items exclusively and recomputes Totals after every change.
type Document struct {
	Number       string
	CustomerID   uuid.UUID
	CustomerName string
	TaxRate      decimal.Decimal
	Discount     Discount
	Items        []LineItem
	Totals       Totals
	Notes        string
}

func newDocument(number string, customerID uuid.UUID, customerName string) (Document, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return Document{}, shared.NewDomainError("INVALID_NUMBER", "Document number cannot be empty")
	}
	if len(number) > 50 {
		return Document{}, shared.NewDomainError("INVALID_NUMBER", "Document number cannot exceed 50 characters")
	}
	if customerID == uuid.Nil {
		return Document{}, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if strings.TrimSpace(customerName) == "" {
		return Document{}, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}

	return Document{
		Number:       number,
		CustomerID:   customerID,
		CustomerName: strings.TrimSpace(customerName),
		TaxRate:      decimal.Zero,
		Discount:     NoDiscount(),
		Items:        make([]LineItem, 0),
		Totals:       ZeroTotals(),
	}, nil
}

// addItem appends a line item
func (d *Document) addItem(productID *uuid.UUID, description string, quantity, unitPrice decimal.Decimal) (*LineItem, error) {
	item, err := NewLineItem(productID, description, quantity, unitPrice)
	if err != nil {
		return nil, err
	}
	d.Items = append(d.Items, item)
	if err := d.Recalculate(); err != nil {
		d.Items = d.Items[:len(d.Items)-1]
		return nil, err
	}
	return &d.Items[len(d.Items)-1], nil
}

// updateItem changes the description, quantity and unit price of an item
func (d *Document) updateItem(itemID uuid.UUID, description string, quantity, unitPrice decimal.Decimal) error {
	idx := d.itemIndex(itemID)
	if idx < 0 {
		return shared.NewDomainError("ITEM_NOT_FOUND", "Line item not found")
	}

	updated := d.Items[idx]
	if desc := strings.TrimSpace(description); desc != "" {
		updated.Description = desc
	}
	if err := updated.SetQuantity(quantity); err != nil {
		return err
	}
	if err := updated.SetUnitPrice(unitPrice); err != nil {
		return err
	}
	d.Items[idx] = updated
	return d.Recalculate()
}

// removeItem deletes a line item
func (d *Document) removeItem(itemID uuid.UUID) error {
	idx := d.itemIndex(itemID)
	if idx < 0 {
		return shared.NewDomainError("ITEM_NOT_FOUND", "Line item not found")
	}
	d.Items = append(d.Items[:idx], d.Items[idx+1:]...)
	return d.Recalculate()
}

// setPricing replaces the tax rate and discount together
func (d *Document) setPricing(taxRate decimal.Decimal, discount Discount) error {
	totals, err := CalculateTotals(d.Items, taxRate, discount)
	if err != nil {
		return err
	}
	d.TaxRate = taxRate
	d.Discount = discount
	d.Totals = totals
	return nil
}

// Recalculate recomputes Totals from the current items, tax rate and discount
func (d *Document) Recalculate() error {
	totals, err := CalculateTotals(d.Items, d.TaxRate, d.Discount)
	if err != nil {
		return err
	}
	d.Totals = totals
	return nil
}

// GetItem returns the item with the given id, or nil
func (d *Document) GetItem(itemID uuid.UUID) *LineItem {
	if idx := d.itemIndex(itemID); idx >= 0 {
		return &d.Items[idx]
	}
	return nil
}

// ItemCount returns the number of line items
func (d *Document) ItemCount() int {
	return len(d.Items)
}

func (d *Document) itemIndex(itemID uuid.UUID) int {
	for i := range d.Items {
		if d.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

// copyFor returns a value copy of the header with fresh item ids, for a
// document converted from this one.
func (d *Document) copyFor(number string) (Document, error) {
	doc, err := newDocument(number, d.CustomerID, d.CustomerName)
	if err != nil {
		return Document{}, err
	}
	doc.Notes = d.Notes
	doc.TaxRate = d.TaxRate
	doc.Discount = d.Discount
	doc.Items = make([]LineItem, 0, len(d.Items))
	for _, item := range d.Items {
		doc.Items = append(doc.Items, item.copyWithNewID())
	}
	if err := doc.Recalculate(); err != nil {
		return Document{}, err
	}
	return doc, nil
}
