package handler

import (
	"github.com/gin-gonic/gin"

	bulkapp "github.com/erp/stockdesk/internal/application/bulk"
)

// BulkHandler applies one operation to a selection of products
type BulkHandler struct {
	BaseHandler
	bulkService *bulkapp.BulkService
}

// NewBulkHandler creates a new BulkHandler
func NewBulkHandler(bulkService *bulkapp.BulkService) *BulkHandler {
	return &BulkHandler{bulkService: bulkService}
}

// Execute handles POST /catalog/products/bulk. Per-product failures still
// answer 200; the body reports which items failed.
func (h *BulkHandler) Execute(c *gin.Context) {
	var req bulkapp.BulkRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.bulkService.Execute(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
