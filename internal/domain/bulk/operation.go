package bulk

import (
	"fmt"
	"strings"

	"github.com/erp/stockdesk/internal/domain/inventory"
	"github.com/erp/stockdesk/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Kind identifies a bulk operation variant.
type Kind string

const (
	KindUpdatePrice    Kind = "update_price"
	KindUpdateCategory Kind = "update_category"
	KindUpdateStock    Kind = "update_stock"
	KindExport         Kind = "export"
	KindDelete         Kind = "delete"
)

// IsValid returns true if the kind is known
func (k Kind) IsValid() bool {
	switch k {
	case KindUpdatePrice, KindUpdateCategory, KindUpdateStock, KindExport, KindDelete:
		return true
	}
	return false
}

// Operation is one of PriceUpdate, CategoryUpdate, StockUpdate, Export or
// Delete. Validate is called before any product is touched.
type Operation interface {
	Kind() Kind
	Validate() error
}

// PriceMode selects how a PriceUpdate changes the current price.
type PriceMode string

const (
	PriceIncreasePercent PriceMode = "increase_percent"
	PriceDecreasePercent PriceMode = "decrease_percent"
	PriceIncreaseAmount  PriceMode = "increase_amount"
	PriceDecreaseAmount  PriceMode = "decrease_amount"
	PriceSet             PriceMode = "set_price"
)

// IsValid returns true if the mode is known
func (m PriceMode) IsValid() bool {
	switch m {
	case PriceIncreasePercent, PriceDecreasePercent, PriceIncreaseAmount, PriceDecreaseAmount, PriceSet:
		return true
	}
	return false
}

// PricePlaces is the precision stored for computed prices.
const PricePlaces int32 = 4

var hundred = decimal.NewFromInt(100)

// PriceUpdate changes the selling price of each product.
type PriceUpdate struct {
	Mode  PriceMode       `json:"mode"`
	Value decimal.Decimal `json:"value"`
}

// Kind implements Operation
func (PriceUpdate) Kind() Kind { return KindUpdatePrice }

// Validate implements Operation
func (o PriceUpdate) Validate() error {
	if !o.Mode.IsValid() {
		return shared.NewDomainError(shared.CodeInvalidPriceMode, fmt.Sprintf("Invalid price update mode: %s", o.Mode))
	}
	if o.Value.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidOperation, "Price update value cannot be negative")
	}
	return nil
}

// Apply returns the new price for current, never below zero.
func (o PriceUpdate) Apply(current decimal.Decimal) decimal.Decimal {
	var next decimal.Decimal
	switch o.Mode {
	case PriceIncreasePercent:
		next = current.Mul(hundred.Add(o.Value)).Div(hundred)
	case PriceDecreasePercent:
		next = current.Mul(hundred.Sub(o.Value)).Div(hundred)
	case PriceIncreaseAmount:
		next = current.Add(o.Value)
	case PriceDecreaseAmount:
		next = current.Sub(o.Value)
	case PriceSet:
		next = o.Value
	default:
		return current
	}
	if next.IsNegative() {
		return decimal.Zero
	}
	return next.Round(PricePlaces)
}

// MaxCategoryLength bounds category names.
const MaxCategoryLength = 100

// CategoryUpdate moves each product into Category.
type CategoryUpdate struct {
	Category string `json:"category"`
}

// Kind implements Operation
func (CategoryUpdate) Kind() Kind { return KindUpdateCategory }

// Validate implements Operation
func (o CategoryUpdate) Validate() error {
	category := strings.TrimSpace(o.Category)
	if category == "" {
		return shared.NewDomainError(shared.CodeInvalidOperation, "Category cannot be empty")
	}
	if len(category) > MaxCategoryLength {
		return shared.NewDomainError(shared.CodeInvalidOperation, fmt.Sprintf("Category cannot exceed %d characters", MaxCategoryLength))
	}
	return nil
}

// StockUpdate applies the same stock adjustment to each product.
type StockUpdate struct {
	Adjustment inventory.Adjustment `json:"adjustment"`
	Reason     string               `json:"reason"`
}

// Kind implements Operation
func (StockUpdate) Kind() Kind { return KindUpdateStock }

// Validate implements Operation
func (o StockUpdate) Validate() error {
	return o.Adjustment.Validate()
}

// Export collects the selected products into a CSV file.
type Export struct{}

// Kind implements Operation
func (Export) Kind() Kind { return KindExport }

// Validate implements Operation
func (Export) Validate() error { return nil }

// Delete removes the selected products. By default products are deactivated;
// Permanent removes the rows. Confirmed must be set by the caller.
type Delete struct {
	Confirmed bool `json:"confirmed"`
	Permanent bool `json:"permanent"`
}

// Kind implements Operation
func (Delete) Kind() Kind { return KindDelete }

// Validate implements Operation
func (o Delete) Validate() error {
	if !o.Confirmed {
		return shared.NewDomainError(shared.CodeInvalidOperation, "Delete must be confirmed")
	}
	return nil
}
