package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	tradeapp "github.com/erp/stockdesk/internal/application/trade"
)

// documentAction is a state transition addressed by document ID
type documentAction[T any] func(ctx context.Context, id uuid.UUID) (*T, error)

// handleAction parses the :id parameter and runs action against it
func handleAction[T any](h *BaseHandler, c *gin.Context, label string, action documentAction[T]) {
	id, ok := h.pathID(c, "id", label)
	if !ok {
		return
	}
	result, err := action(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// QuotationHandler handles quotation endpoints
type QuotationHandler struct {
	BaseHandler
	quotationService *tradeapp.QuotationService
}

// NewQuotationHandler creates a new QuotationHandler
func NewQuotationHandler(quotationService *tradeapp.QuotationService) *QuotationHandler {
	return &QuotationHandler{quotationService: quotationService}
}

// Create handles POST /trade/quotations
func (h *QuotationHandler) Create(c *gin.Context) {
	var req tradeapp.CreateQuotationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	quotation, err := h.quotationService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, quotation)
}

// Get handles GET /trade/quotations/:id
func (h *QuotationHandler) Get(c *gin.Context) {
	handleAction(&h.BaseHandler, c, "quotation", h.quotationService.Get)
}

// List handles GET /trade/quotations
func (h *QuotationHandler) List(c *gin.Context) {
	var filter tradeapp.DocumentListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	page, err := h.quotationService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// AddItem handles POST /trade/quotations/:id/items
func (h *QuotationHandler) AddItem(c *gin.Context) {
	id, ok := h.pathID(c, "id", "quotation")
	if !ok {
		return
	}
	var req tradeapp.LineItemInput
	if !h.bindJSON(c, &req) {
		return
	}

	quotation, err := h.quotationService.AddItem(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quotation)
}

// UpdateItem handles PUT /trade/quotations/:id/items/:item_id
func (h *QuotationHandler) UpdateItem(c *gin.Context) {
	id, ok := h.pathID(c, "id", "quotation")
	if !ok {
		return
	}
	itemID, ok := h.pathID(c, "item_id", "item")
	if !ok {
		return
	}
	var req tradeapp.UpdateLineItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	quotation, err := h.quotationService.UpdateItem(c.Request.Context(), id, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quotation)
}

// RemoveItem handles DELETE /trade/quotations/:id/items/:item_id
func (h *QuotationHandler) RemoveItem(c *gin.Context) {
	id, ok := h.pathID(c, "id", "quotation")
	if !ok {
		return
	}
	itemID, ok := h.pathID(c, "item_id", "item")
	if !ok {
		return
	}

	quotation, err := h.quotationService.RemoveItem(c.Request.Context(), id, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quotation)
}

// SetPricing handles PUT /trade/quotations/:id/pricing
func (h *QuotationHandler) SetPricing(c *gin.Context) {
	id, ok := h.pathID(c, "id", "quotation")
	if !ok {
		return
	}
	var req tradeapp.PricingRequest
	if !h.bindJSON(c, &req) {
		return
	}

	quotation, err := h.quotationService.SetPricing(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quotation)
}

// Send handles POST /trade/quotations/:id/send
func (h *QuotationHandler) Send(c *gin.Context) {
	handleAction(&h.BaseHandler, c, "quotation", h.quotationService.Send)
}

// Accept handles POST /trade/quotations/:id/accept
func (h *QuotationHandler) Accept(c *gin.Context) {
	handleAction(&h.BaseHandler, c, "quotation", h.quotationService.Accept)
}

// Reject handles POST /trade/quotations/:id/reject
func (h *QuotationHandler) Reject(c *gin.Context) {
	handleAction(&h.BaseHandler, c, "quotation", h.quotationService.Reject)
}

// Expire handles POST /trade/quotations/:id/expire
func (h *QuotationHandler) Expire(c *gin.Context) {
	handleAction(&h.BaseHandler, c, "quotation", h.quotationService.Expire)
}

// Convert handles POST /trade/quotations/:id/convert and answers with the
// new sales order
func (h *QuotationHandler) Convert(c *gin.Context) {
	id, ok := h.pathID(c, "id", "quotation")
	if !ok {
		return
	}

	order, err := h.quotationService.Convert(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// SalesOrderHandler handles sales order endpoints
type SalesOrderHandler struct {
	BaseHandler
	orderService *tradeapp.SalesOrderService
}

// NewSalesOrderHandler creates a new SalesOrderHandler
func NewSalesOrderHandler(orderService *tradeapp.SalesOrderService) *SalesOrderHandler {
	return &SalesOrderHandler{orderService: orderService}
}

// Get handles GET /trade/orders/:id
func (h *SalesOrderHandler) Get(c *gin.Context) {
	handleAction(&h.BaseHandler, c, "order", h.orderService.Get)
}

// List handles GET /trade/orders
func (h *SalesOrderHandler) List(c *gin.Context) {
	var filter tradeapp.DocumentListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	page, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

func (h *SalesOrderHandler) Confirm(c *gin.Context) {
	handleAction(&h.BaseHandler, c, "order", h.orderService.Confirm)
}

func (h *SalesOrderHandler) Process(c *gin.Context) {
	handleAction(&h.BaseHandler, c, "order", h.orderService.Process)
}

func (h *SalesOrderHandler) Ship(c *gin.Context) {
	handleAction(&h.BaseHandler, c, "order", h.orderService.Ship)
}

func (h *SalesOrderHandler) Deliver(c *gin.Context) {
	handleAction(&h.BaseHandler, c, "order", h.orderService.Deliver)
}

// Cancel handles POST /trade/orders/:id/cancel
func (h *SalesOrderHandler) Cancel(c *gin.Context) {
	id, ok := h.pathID(c, "id", "order")
	if !ok {
		return
	}
	var req tradeapp.CancelOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Invoice handles POST /trade/orders/:id/invoice. The body is optional.
func (h *SalesOrderHandler) Invoice(c *gin.Context) {
	id, ok := h.pathID(c, "id", "order")
	if !ok {
		return
	}
	var req tradeapp.InvoiceOrderRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}

	invoice, err := h.orderService.Invoice(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// InvoiceHandler handles invoice endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *tradeapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *tradeapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Get handles GET /trade/invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	handleAction(&h.BaseHandler, c, "invoice", h.invoiceService.Get)
}

// List handles GET /trade/invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	var filter tradeapp.DocumentListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	page, err := h.invoiceService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

func (h *InvoiceHandler) Send(c *gin.Context) {
	handleAction(&h.BaseHandler, c, "invoice", h.invoiceService.Send)
}

func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	handleAction(&h.BaseHandler, c, "invoice", h.invoiceService.MarkPaid)
}

func (h *InvoiceHandler) MarkOverdue(c *gin.Context) {
	handleAction(&h.BaseHandler, c, "invoice", h.invoiceService.MarkOverdue)
}

func (h *InvoiceHandler) Cancel(c *gin.Context) {
	handleAction(&h.BaseHandler, c, "invoice", h.invoiceService.Cancel)
}

// TotalsHandler previews document totals without storing anything
type TotalsHandler struct {
	BaseHandler
}

// NewTotalsHandler creates a new TotalsHandler
func NewTotalsHandler() *TotalsHandler {
	return &TotalsHandler{}
}

// Preview handles POST /trade/totals/preview
func (h *TotalsHandler) Preview(c *gin.Context) {
	var req tradeapp.TotalsPreviewRequest
	if !h.bindJSON(c, &req) {
		return
	}

	totals, err := tradeapp.PreviewTotals(req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, totals)
}
