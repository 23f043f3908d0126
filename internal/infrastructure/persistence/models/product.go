package models

import (
	"github.com/shopspring/decimal"

	"github.com/erp/stockdesk/internal/domain/catalog"
)

// ProductModel is the persistence model for catalog.Product.
type ProductModel struct {
	AggregateModel
	Name          string              `gorm:"type:varchar(200);not null"`
	SKU           string              `gorm:"column:sku;type:varchar(50);not null;uniqueIndex"`
	Description   string              `gorm:"type:text"`
	Category      string              `gorm:"type:varchar(100);index"`
	Price         decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	Cost          decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	StockQuantity int64               `gorm:"not null;default:0"`
	MinStockLevel int64               `gorm:"not null;default:0"`
	IsActive      bool                `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the model to a domain product
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{
		BaseAggregateRoot: m.ToAggregate(),
		Name:              m.Name,
		SKU:               m.SKU,
		Description:       m.Description,
		Category:          m.Category,
		Price:             m.Price,
		StockQuantity:     m.StockQuantity,
		MinStockLevel:     m.MinStockLevel,
		Active:            m.IsActive,
	}
	if m.Cost.Valid {
		cost := m.Cost.Decimal
		p.Cost = &cost
	}
	return p
}

// ProductModelFromDomain builds a model from a domain product
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{
		Name:          p.Name,
		SKU:           p.SKU,
		Description:   p.Description,
		Category:      p.Category,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		MinStockLevel: p.MinStockLevel,
		IsActive:      p.Active,
	}
	m.FromAggregate(p.BaseAggregateRoot)
	if p.Cost != nil {
		m.Cost = decimal.NewNullDecimal(*p.Cost)
	}
	return m
}

// UpdateColumns returns the mutable columns for a version-guarded update.
func (m *ProductModel) UpdateColumns() map[string]any {
	return map[string]any{
		"name":            m.Name,
		"sku":             m.SKU,
		"description":     m.Description,
		"category":        m.Category,
		"price":           m.Price,
		"cost":            m.Cost,
		"stock_quantity":  m.StockQuantity,
		"min_stock_level": m.MinStockLevel,
		"is_active":       m.IsActive,
		"updated_at":      m.UpdatedAt,
	}
}
