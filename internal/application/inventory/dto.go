package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/stockdesk/internal/domain/catalog"
	"github.com/erp/stockdesk/internal/domain/inventory"
)

// AdjustStockRequest is the body of a manual stock adjustment. Mode and value
// are checked by the adjustment engine so that bad input reports
// INVALID_ADJUSTMENT rather than a binding error.
type AdjustStockRequest struct {
	Mode   string `json:"mode"`
	Value  int64  `json:"value"`
	Reason string `json:"reason" binding:"max=500"`
}

// Adjustment converts the request to the domain value
func (r AdjustStockRequest) Adjustment() inventory.Adjustment {
	return inventory.Adjustment{Mode: inventory.AdjustmentMode(r.Mode), Value: r.Value}
}

// StockStatusResponse describes a product's classification
type StockStatusResponse struct {
	ProductID     uuid.UUID                    `json:"product_id"`
	SKU           string                       `json:"sku"`
	Name          string                       `json:"name"`
	StockQuantity int64                        `json:"stock_quantity"`
	MinStockLevel int64                        `json:"min_stock_level"`
	IsActive      bool                         `json:"is_active"`
	Status        inventory.StockStatus        `json:"status"`
	Severity      inventory.AlertSeverity      `json:"severity,omitempty"`
	Alert         *inventory.StockAlert        `json:"alert,omitempty"`
	StockValue    decimal.Decimal              `json:"stock_value"`
	Reorder       *inventory.ReorderSuggestion `json:"reorder,omitempty"`
}

// AdjustStockResponse reports the outcome of an adjustment
type AdjustStockResponse struct {
	Movement inventory.StockMovement `json:"movement"`
	Clamped  bool                    `json:"clamped"`
	Status   StockStatusResponse     `json:"status"`
}

// AlertListResponse lists open alerts, critical first
type AlertListResponse struct {
	Alerts []inventory.StockAlert          `json:"alerts"`
	Counts map[inventory.AlertSeverity]int `json:"counts"`
	Total  int                             `json:"total"`
}

// ReorderListResponse lists reorder suggestions with their combined cost
type ReorderListResponse struct {
	Suggestions []inventory.ReorderSuggestion `json:"suggestions"`
	TotalCost   decimal.Decimal               `json:"total_cost"`
}

// MovementListFilter pages through a product's movement history
type MovementListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToStockStatusResponse builds the status view of a product
func ToStockStatusResponse(p *catalog.Product) StockStatusResponse {
	c := inventory.ClassifyProduct(p)
	resp := StockStatusResponse{
		ProductID:     p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		StockQuantity: p.StockQuantity,
		MinStockLevel: p.MinStockLevel,
		IsActive:      p.IsActive(),
		Status:        c.Status,
		Severity:      c.Severity,
		StockValue:    p.StockValue(),
	}
	if alert, ok := inventory.NewStockAlert(p); ok {
		resp.Alert = &alert
	}
	if inventory.NeedsReorder(p) {
		s := inventory.SuggestReorder(p)
		resp.Reorder = &s
	}
	return resp
}
