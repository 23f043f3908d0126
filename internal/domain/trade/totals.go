package trade

import (
	"fmt"
	"strings"

	"github.com/erp/stockdesk/internal/domain/shared"
	"github.com/erp/stockdesk/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountType tags how a discount value is interpreted
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// IsValid returns true if the discount type is known
func (t DiscountType) IsValid() bool {
	return t == DiscountPercentage || t == DiscountFixed
}

// Discount is a document-level discount
type Discount struct {
	Type  DiscountType    `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// NoDiscount returns a zero fixed discount
func NoDiscount() Discount {
	return Discount{Type: DiscountFixed, Value: decimal.Zero}
}

// Validate rejects negative values and unknown types. A percentage above 100
// is accepted; the taxable base is clamped at zero instead.
func (d Discount) Validate() error {
	if !d.Type.IsValid() {
		return shared.NewDomainError(shared.CodeInvalidDiscount, fmt.Sprintf("Unknown discount type: %s", d.Type))
	}
	if d.Value.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidDiscount, "Discount value cannot be negative")
	}
	return nil
}

// Amount returns the discount in currency for subtotal
func (d Discount) Amount(subtotal decimal.Decimal) decimal.Decimal {
	if d.Type == DiscountPercentage {
		p, _ := valueobject.NewUnboundedPercent(d.Value)
		return p.Of(subtotal)
	}
	return d.Value
}

// ValidateTaxRate checks a tax rate lies within 0..100
func ValidateTaxRate(rate decimal.Decimal) error {
	if _, err := valueobject.NewPercent(rate); err != nil {
		return shared.NewDomainError(shared.CodeInvalidTaxRate, "Tax rate must be between 0 and 100")
	}
	return nil
}

// LineItem is one priced row of a quotation, order or invoice. The line
// total is always derived from quantity and unit price.
type LineItem struct {
	ID          uuid.UUID
	ProductID   *uuid.UUID
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// NewLineItem creates a line item. productID may be nil for custom rows.
func NewLineItem(productID *uuid.UUID, description string, quantity, unitPrice decimal.Decimal) (LineItem, error) {
	item := LineItem{
		ID:          uuid.New(),
		Description: strings.TrimSpace(description),
	}
	if productID != nil && *productID != uuid.Nil {
		id := *productID
		item.ProductID = &id
	}
	if item.Description == "" {
		return LineItem{}, shared.NewDomainError("INVALID_DESCRIPTION", "Line item description cannot be empty")
	}
	if err := item.SetQuantity(quantity); err != nil {
		return LineItem{}, err
	}
	if err := item.SetUnitPrice(unitPrice); err != nil {
		return LineItem{}, err
	}
	return item, nil
}

// SetQuantity changes the quantity
func (i *LineItem) SetQuantity(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	i.Quantity = quantity
	return nil
}

// SetUnitPrice changes the unit price
func (i *LineItem) SetUnitPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	i.UnitPrice = price
	return nil
}

// LineTotal returns quantity × unit price
func (i LineItem) LineTotal() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}

// copyWithNewID returns a value copy of the item under a fresh id
func (i LineItem) copyWithNewID() LineItem {
	cp := i
	cp.ID = uuid.New()
	if i.ProductID != nil {
		id := *i.ProductID
		cp.ProductID = &id
	}
	return cp
}

// Totals are the computed amounts of a document
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxableBase    decimal.Decimal `json:"taxable_base"`
	Tax            decimal.Decimal `json:"tax"`
	Total          decimal.Decimal `json:"total"`
}

// ZeroTotals returns totals for an empty document
func ZeroTotals() Totals {
	return Totals{
		Subtotal:       decimal.Zero,
		DiscountAmount: decimal.Zero,
		TaxableBase:    decimal.Zero,
		Tax:            decimal.Zero,
		Total:          decimal.Zero,
	}
}

// CalculateTotals computes subtotal, discount, taxable base, tax and total.
// A discount larger than the subtotal clamps the taxable base at zero before
// tax is applied; DiscountAmount still reports the requested discount.
func CalculateTotals(items []LineItem, taxRate decimal.Decimal, discount Discount) (Totals, error) {
	if err := discount.Validate(); err != nil {
		return Totals{}, err
	}
	if err := ValidateTaxRate(taxRate); err != nil {
		return Totals{}, err
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}

	discountAmount := discount.Amount(subtotal)
	taxableBase := subtotal.Sub(discountAmount)
	if taxableBase.IsNegative() {
		taxableBase = decimal.Zero
	}

	rate, _ := valueobject.NewPercent(taxRate)
	tax := rate.Of(taxableBase)
	total := taxableBase.Add(tax)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		TaxableBase:    taxableBase,
		Tax:            tax,
		Total:          total,
	}, nil
}
