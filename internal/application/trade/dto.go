package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/stockdesk/internal/domain/shared"
	"github.com/erp/stockdesk/internal/domain/trade"
)

// ==================== Requests ====================

// LineItemInput describes one item line. Quantity and unit price are checked
// by the domain so negative values report the domain error code.
type LineItemInput struct {
	ProductID   *uuid.UUID      `json:"product_id"`
	Description string          `json:"description" binding:"required,max=500"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// DiscountInput is a document discount. An omitted discount means none.
type DiscountInput struct {
	Type  string          `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// Discount converts the input to the domain value
func (d *DiscountInput) Discount() trade.Discount {
	if d == nil || (d.Type == "" && d.Value.IsZero()) {
		return trade.NoDiscount()
	}
	return trade.Discount{Type: trade.DiscountType(d.Type), Value: d.Value}
}

// CreateQuotationRequest creates a draft quotation
type CreateQuotationRequest struct {
	CustomerID   uuid.UUID       `json:"customer_id" binding:"required"`
	CustomerName string          `json:"customer_name" binding:"required,min=1,max=200"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	Discount     *DiscountInput  `json:"discount"`
	Items        []LineItemInput `json:"items" binding:"dive"`
	ValidUntil   *time.Time      `json:"valid_until"`
	Notes        string          `json:"notes" binding:"max=2000"`
}

// UpdateLineItemRequest replaces an item's quantity and price. An empty
// description keeps the current one.
type UpdateLineItemRequest struct {
	Description string          `json:"description" binding:"max=500"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// PricingRequest sets the tax rate and discount of a document
type PricingRequest struct {
	TaxRate  decimal.Decimal `json:"tax_rate"`
	Discount *DiscountInput  `json:"discount"`
}

// TotalsPreviewRequest computes totals without storing anything
type TotalsPreviewRequest struct {
	Items    []LineItemInput `json:"items" binding:"dive"`
	TaxRate  decimal.Decimal `json:"tax_rate"`
	Discount *DiscountInput  `json:"discount"`
}

// CancelOrderRequest cancels a sales order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// InvoiceOrderRequest converts an order into an invoice
type InvoiceOrderRequest struct {
	DueDate *time.Time `json:"due_date"`
}

// DocumentListFilter pages through documents of one type
type DocumentListFilter struct {
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search     string `form:"search"`
	Status     string `form:"status"`
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// toDomain applies defaults and maps to the repository filter
func (f DocumentListFilter) toDomain() shared.Filter {
	filter := shared.DefaultFilter()
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	if f.OrderBy != "" {
		filter.OrderBy = f.OrderBy
	}
	if f.OrderDir != "" {
		filter.OrderDir = f.OrderDir
	}
	filter.Search = f.Search
	if f.Status != "" {
		filter.Filters["status"] = f.Status
	}
	if id, err := uuid.Parse(f.CustomerID); err == nil {
		filter.Filters["customer_id"] = id
	}
	return filter
}

// ==================== Responses ====================

// LineItemResponse is one item line with its computed total
type LineItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   *uuid.UUID      `json:"product_id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// DocumentResponse holds the fields shared by all document types
type DocumentResponse struct {
	ID           uuid.UUID          `json:"id"`
	Number       string             `json:"number"`
	CustomerID   uuid.UUID          `json:"customer_id"`
	CustomerName string             `json:"customer_name"`
	TaxRate      decimal.Decimal    `json:"tax_rate"`
	Discount     trade.Discount     `json:"discount"`
	Items        []LineItemResponse `json:"items"`
	Totals       trade.Totals       `json:"totals"`
	Notes        string             `json:"notes,omitempty"`
	Version      int                `json:"version"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// QuotationResponse is the API view of a quotation
type QuotationResponse struct {
	DocumentResponse
	Status           trade.QuotationStatus `json:"status"`
	ValidUntil       *time.Time            `json:"valid_until,omitempty"`
	SentAt           *time.Time            `json:"sent_at,omitempty"`
	DecidedAt        *time.Time            `json:"decided_at,omitempty"`
	ConvertedOrderID *uuid.UUID            `json:"converted_order_id,omitempty"`
}

// SalesOrderResponse is the API view of a sales order
type SalesOrderResponse struct {
	DocumentResponse
	Status       trade.OrderStatus `json:"status"`
	QuotationID  *uuid.UUID        `json:"quotation_id,omitempty"`
	InvoiceID    *uuid.UUID        `json:"invoice_id,omitempty"`
	ConfirmedAt  *time.Time        `json:"confirmed_at,omitempty"`
	ShippedAt    *time.Time        `json:"shipped_at,omitempty"`
	DeliveredAt  *time.Time        `json:"delivered_at,omitempty"`
	CancelledAt  *time.Time        `json:"cancelled_at,omitempty"`
	CancelReason string            `json:"cancel_reason,omitempty"`
}

// InvoiceResponse is the API view of an invoice
type InvoiceResponse struct {
	DocumentResponse
	Status  trade.InvoiceStatus `json:"status"`
	OrderID *uuid.UUID          `json:"order_id,omitempty"`
	DueDate *time.Time          `json:"due_date,omitempty"`
	SentAt  *time.Time          `json:"sent_at,omitempty"`
	PaidAt  *time.Time          `json:"paid_at,omitempty"`
}

// TotalsPreviewResponse echoes the priced lines with the document totals
type TotalsPreviewResponse struct {
	Items  []LineItemResponse `json:"items"`
	Totals trade.Totals       `json:"totals"`
}

func toLineItemResponses(items []trade.LineItem) []LineItemResponse {
	out := make([]LineItemResponse, len(items))
	for i, item := range items {
		out[i] = LineItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal(),
		}
	}
	return out
}

func toDocumentResponse(root *shared.BaseAggregateRoot, doc *trade.Document) DocumentResponse {
	return DocumentResponse{
		ID:           root.ID,
		Number:       doc.Number,
		CustomerID:   doc.CustomerID,
		CustomerName: doc.CustomerName,
		TaxRate:      doc.TaxRate,
		Discount:     doc.Discount,
		Items:        toLineItemResponses(doc.Items),
		Totals:       doc.Totals,
		Notes:        doc.Notes,
		Version:      root.Version,
		CreatedAt:    root.CreatedAt,
		UpdatedAt:    root.UpdatedAt,
	}
}

// ToQuotationResponse converts a domain quotation
func ToQuotationResponse(q *trade.Quotation) QuotationResponse {
	return QuotationResponse{
		DocumentResponse: toDocumentResponse(&q.BaseAggregateRoot, &q.Document),
		Status:           q.Status,
		ValidUntil:       q.ValidUntil,
		SentAt:           q.SentAt,
		DecidedAt:        q.DecidedAt,
		ConvertedOrderID: q.ConvertedOrderID,
	}
}

// ToSalesOrderResponse converts a domain sales order
func ToSalesOrderResponse(o *trade.SalesOrder) SalesOrderResponse {
	return SalesOrderResponse{
		DocumentResponse: toDocumentResponse(&o.BaseAggregateRoot, &o.Document),
		Status:           o.Status,
		QuotationID:      o.QuotationID,
		InvoiceID:        o.InvoiceID,
		ConfirmedAt:      o.ConfirmedAt,
		ShippedAt:        o.ShippedAt,
		DeliveredAt:      o.DeliveredAt,
		CancelledAt:      o.CancelledAt,
		CancelReason:     o.CancelReason,
	}
}

// ToInvoiceResponse converts a domain invoice
func ToInvoiceResponse(i *trade.Invoice) InvoiceResponse {
	return InvoiceResponse{
		DocumentResponse: toDocumentResponse(&i.BaseAggregateRoot, &i.Document),
		Status:           i.Status,
		OrderID:          i.OrderID,
		DueDate:          i.DueDate,
		SentAt:           i.SentAt,
		PaidAt:           i.PaidAt,
	}
}
