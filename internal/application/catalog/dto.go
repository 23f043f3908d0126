package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/stockdesk/internal/domain/catalog"
	"github.com/erp/stockdesk/internal/domain/inventory"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	SKU           string           `json:"sku" binding:"required,min=1,max=50"`
	Name          string           `json:"name" binding:"required,min=1,max=200"`
	Description   string           `json:"description" binding:"max=2000"`
	Category      string           `json:"category" binding:"max=100"`
	Price         decimal.Decimal  `json:"price"`
	Cost          *decimal.Decimal `json:"cost"`
	MinStockLevel int64            `json:"min_stock_level" binding:"min=0"`
}

// UpdateProductRequest represents a partial product update. Nil fields are
// left unchanged; ClearCost removes a known cost.
type UpdateProductRequest struct {
	Name          *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description   *string          `json:"description" binding:"omitempty,max=2000"`
	Category      *string          `json:"category" binding:"omitempty,max=100"`
	Price         *decimal.Decimal `json:"price"`
	Cost          *decimal.Decimal `json:"cost"`
	ClearCost     bool             `json:"clear_cost"`
	MinStockLevel *int64           `json:"min_stock_level" binding:"omitempty,min=0"`
	Active        *bool            `json:"active"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID            uuid.UUID               `json:"id"`
	SKU           string                  `json:"sku"`
	Name          string                  `json:"name"`
	Description   string                  `json:"description"`
	Category      string                  `json:"category"`
	Price         decimal.Decimal         `json:"price"`
	Cost          *decimal.Decimal        `json:"cost,omitempty"`
	StockQuantity int64                   `json:"stock_quantity"`
	MinStockLevel int64                   `json:"min_stock_level"`
	StockValue    decimal.Decimal         `json:"stock_value"`
	StockStatus   inventory.StockStatus   `json:"stock_status"`
	Severity      inventory.AlertSeverity `json:"severity,omitempty"`
	Active        bool                    `json:"active"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
	Version       int                     `json:"version"`
}

// ProductListFilter represents filter options for product list
type ProductListFilter struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	status := inventory.ClassifyProduct(p)
	return ProductResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.CategoryLabel(),
		Price:         p.Price,
		Cost:          p.Cost,
		StockQuantity: p.StockQuantity,
		MinStockLevel: p.MinStockLevel,
		StockValue:    p.StockValue(),
		StockStatus:   status.Status,
		Severity:      status.Severity,
		Active:        p.Active,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Version:       p.Version,
	}
}

// ToProductResponses converts a slice of domain products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = ToProductResponse(&products[i])
	}
	return out
}
