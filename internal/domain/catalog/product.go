package catalog

import (
	"strings"

	"github.com/erp/stockdesk/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// UncategorizedLabel is the category reported for products without one.
const UncategorizedLabel = "Uncategorized"

// Product represents a stocked item in the catalog.
// It is the aggregate root for product-related operations; stock quantity is
// changed through the inventory adjustment engine and persisted here.
type Product struct {
	shared.BaseAggregateRoot
	Name          string
	SKU           string
	Description   string
	Category      string
	Price         decimal.Decimal
	Cost          *decimal.Decimal
	StockQuantity int64
	MinStockLevel int64
	Active        bool
}

// NewProduct creates a new active product with no stock.
func NewProduct(name, sku, category string, price decimal.Decimal) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		SKU:               strings.ToUpper(strings.TrimSpace(sku)),
		Category:          strings.TrimSpace(category),
		Price:             price,
		Active:            true,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's descriptive fields.
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = strings.TrimSpace(name)
	p.Description = description
	p.touch()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetCategory assigns the product to a category. An empty string clears it.
func (p *Product) SetCategory(category string) {
	p.Category = strings.TrimSpace(category)
	p.touch()

	p.AddDomainEvent(NewProductUpdatedEvent(p))
}

// SetPrice changes the selling price.
func (p *Product) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	oldPrice := p.Price
	p.Price = price
	p.touch()

	p.AddDomainEvent(NewProductPriceChangedEvent(p, oldPrice))

	return nil
}

// SetCost sets or clears (nil) the unit cost.
func (p *Product) SetCost(cost *decimal.Decimal) error {
	if cost != nil && cost.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Cost cannot be negative")
	}

	if cost != nil {
		c := *cost
		p.Cost = &c
	} else {
		p.Cost = nil
	}
	p.touch()

	return nil
}

// SetMinStockLevel sets the threshold below which stock alerts are raised.
// The classification of the product can change with it, so a change emits
// ProductUpdated.
func (p *Product) SetMinStockLevel(level int64) error {
	if level < 0 {
		return shared.NewDomainError("INVALID_MIN_STOCK", "Minimum stock level cannot be negative")
	}

	if level == p.MinStockLevel {
		return nil
	}
	p.MinStockLevel = level
	p.touch()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetStockQuantity records a new on-hand quantity. Callers compute the value
// through the inventory adjustment engine, which never produces a negative.
func (p *Product) SetStockQuantity(quantity int64) error {
	if quantity < 0 {
		return shared.NewDomainError(shared.CodeInvalidAdjustment, "Stock quantity cannot be negative")
	}

	p.StockQuantity = quantity
	p.touch()

	return nil
}

// Activate re-enables a deactivated product. Activating an active product is
// a no-op.
func (p *Product) Activate() {
	if p.Active {
		return
	}
	p.Active = true
	p.touch()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, false, true))
}

// Deactivate soft-deletes the product. Deactivating an inactive product is a
// no-op.
func (p *Product) Deactivate() {
	if !p.Active {
		return
	}
	p.Active = false
	p.touch()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, true, false))
}

// IsActive returns true if the product is active
func (p *Product) IsActive() bool {
	return p.Active
}

// CategoryLabel returns the category, or UncategorizedLabel when empty.
func (p *Product) CategoryLabel() string {
	if p.Category == "" {
		return UncategorizedLabel
	}
	return p.Category
}

// UnitCost returns the cost when known, falling back to the selling price.
func (p *Product) UnitCost() decimal.Decimal {
	if p.Cost != nil {
		return *p.Cost
	}
	return p.Price
}

// StockValue returns price × on-hand quantity.
func (p *Product) StockValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(p.StockQuantity))
}

// touch stamps the modification time. The version is advanced by the
// repository when the change is persisted.
func (p *Product) touch() {
	p.Touch()
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

// validateSKU accepts letters, digits, underscores and hyphens.
func validateSKU(sku string) error {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 50 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 50 characters")
	}
	for _, r := range sku {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_SKU", "SKU can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}
