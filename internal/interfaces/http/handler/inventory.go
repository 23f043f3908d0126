package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	invapp "github.com/erp/stockdesk/internal/application/inventory"
	"github.com/erp/stockdesk/internal/domain/shared"
)

// InventoryHandler handles stock status, adjustment and valuation endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *invapp.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *invapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// ListAlerts handles GET /inventory/alerts
func (h *InventoryHandler) ListAlerts(c *gin.Context) {
	alerts, err := h.inventoryService.ListAlerts(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, alerts)
}

// ListReorderSuggestions handles GET /inventory/reorder-suggestions
func (h *InventoryHandler) ListReorderSuggestions(c *gin.Context) {
	suggestions, err := h.inventoryService.ListReorderSuggestions(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, suggestions)
}

// GetValuation handles GET /inventory/valuation. ?refresh=true bypasses the
// cached report.
func (h *InventoryHandler) GetValuation(c *gin.Context) {
	refresh := false
	if raw := c.Query("refresh"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			h.BadRequest(c, "refresh must be a boolean")
			return
		}
		refresh = v
	}

	report, err := h.inventoryService.GetValuation(c.Request.Context(), refresh)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// AdjustStock handles POST /inventory/products/:id/adjust
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	id, ok := h.pathID(c, "id", "product")
	if !ok {
		return
	}
	var req invapp.AdjustStockRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.inventoryService.AdjustStock(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetStatus handles GET /inventory/products/:id/status
func (h *InventoryHandler) GetStatus(c *gin.Context) {
	id, ok := h.pathID(c, "id", "product")
	if !ok {
		return
	}

	status, err := h.inventoryService.GetStatus(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, status)
}

// ListMovements handles GET /inventory/products/:id/movements
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	id, ok := h.pathID(c, "id", "product")
	if !ok {
		return
	}
	var filter invapp.MovementListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = shared.DefaultFilter().PageSize
	}

	movements, total, err := h.inventoryService.ListMovements(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, movements, total, filter.Page, filter.PageSize)
}
