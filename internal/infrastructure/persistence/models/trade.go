package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/stockdesk/internal/domain/trade"
)

// DocumentColumns are the header columns shared by the three trade tables.
type DocumentColumns struct {
	Number         string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerName   string          `gorm:"type:varchar(200);not null"`
	TaxRate        decimal.Decimal `gorm:"type:decimal(7,4);not null"`
	DiscountType   string          `gorm:"type:varchar(20);not null"`
	DiscountValue  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TaxableBase    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Notes          string          `gorm:"type:text"`
}

func documentColumnsFromDomain(d *trade.Document) DocumentColumns {
	return DocumentColumns{
		Number:         d.Number,
		CustomerID:     d.CustomerID,
		CustomerName:   d.CustomerName,
		TaxRate:        d.TaxRate,
		DiscountType:   string(d.Discount.Type),
		DiscountValue:  d.Discount.Value,
		Subtotal:       d.Totals.Subtotal,
		DiscountAmount: d.Totals.DiscountAmount,
		TaxableBase:    d.Totals.TaxableBase,
		TaxAmount:      d.Totals.Tax,
		TotalAmount:    d.Totals.Total,
		Notes:          d.Notes,
	}
}

func (c DocumentColumns) toDomain(items []LineItemModel) trade.Document {
	doc := trade.Document{
		Number:       c.Number,
		CustomerID:   c.CustomerID,
		CustomerName: c.CustomerName,
		TaxRate:      c.TaxRate,
		Discount:     trade.Discount{Type: trade.DiscountType(c.DiscountType), Value: c.DiscountValue},
		Items:        make([]trade.LineItem, len(items)),
		Totals: trade.Totals{
			Subtotal:       c.Subtotal,
			DiscountAmount: c.DiscountAmount,
			TaxableBase:    c.TaxableBase,
			Tax:            c.TaxAmount,
			Total:          c.TotalAmount,
		},
		Notes: c.Notes,
	}
	for i := range items {
		doc.Items[i] = items[i].ToDomain()
	}
	return doc
}

// LineItemModel stores the items of every document type in one table,
// keyed by (document_type, document_id) and ordered by position.
type LineItemModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	DocumentType string          `gorm:"type:varchar(20);not null;index:idx_line_items_document,priority:1"`
	DocumentID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_line_items_document,priority:2"`
	Position     int             `gorm:"not null"`
	ProductID    *uuid.UUID      `gorm:"type:uuid"`
	Description  string          `gorm:"type:varchar(500);not null"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineTotal    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (LineItemModel) TableName() string {
	return "trade_line_items"
}

// ToDomain converts the row to a domain line item
func (m *LineItemModel) ToDomain() trade.LineItem {
	return trade.LineItem{
		ID:          m.ID,
		ProductID:   m.ProductID,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
	}
}

// LineItemModelsFromDomain builds the rows of a document in item order
func LineItemModelsFromDomain(docType trade.DocumentType, docID uuid.UUID, items []trade.LineItem) []LineItemModel {
	rows := make([]LineItemModel, len(items))
	for i, item := range items {
		rows[i] = LineItemModel{
			ID:           item.ID,
			DocumentType: string(docType),
			DocumentID:   docID,
			Position:     i,
			ProductID:    item.ProductID,
			Description:  item.Description,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			LineTotal:    item.LineTotal(),
		}
	}
	return rows
}

// QuotationModel is the persistence model for trade.Quotation
type QuotationModel struct {
	AggregateModel
	DocumentColumns  `gorm:"embedded"`
	Status           string `gorm:"type:varchar(20);not null;index"`
	ValidUntil       *time.Time
	SentAt           *time.Time
	DecidedAt        *time.Time
	ConvertedOrderID *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (QuotationModel) TableName() string {
	return "quotations"
}

// ToDomain converts the model and its item rows to a domain quotation
func (m *QuotationModel) ToDomain(items []LineItemModel) *trade.Quotation {
	return &trade.Quotation{
		BaseAggregateRoot: m.ToAggregate(),
		Document:          m.DocumentColumns.toDomain(items),
		Status:            trade.QuotationStatus(m.Status),
		ValidUntil:        m.ValidUntil,
		SentAt:            m.SentAt,
		DecidedAt:         m.DecidedAt,
		ConvertedOrderID:  m.ConvertedOrderID,
	}
}

// QuotationModelFromDomain builds a model from a domain quotation
func QuotationModelFromDomain(q *trade.Quotation) *QuotationModel {
	m := &QuotationModel{
		DocumentColumns:  documentColumnsFromDomain(&q.Document),
		Status:           string(q.Status),
		ValidUntil:       q.ValidUntil,
		SentAt:           q.SentAt,
		DecidedAt:        q.DecidedAt,
		ConvertedOrderID: q.ConvertedOrderID,
	}
	m.FromAggregate(q.BaseAggregateRoot)
	return m
}

// SalesOrderModel is the persistence model for trade.SalesOrder
type SalesOrderModel struct {
	AggregateModel
	DocumentColumns `gorm:"embedded"`
	Status          string     `gorm:"type:varchar(20);not null;index"`
	QuotationID     *uuid.UUID `gorm:"type:uuid;index"`
	InvoiceID       *uuid.UUID `gorm:"type:uuid"`
	ConfirmedAt     *time.Time
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
	CancelReason    string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (SalesOrderModel) TableName() string {
	return "sales_orders"
}

// ToDomain converts the model and its item rows to a domain order
func (m *SalesOrderModel) ToDomain(items []LineItemModel) *trade.SalesOrder {
	return &trade.SalesOrder{
		BaseAggregateRoot: m.ToAggregate(),
		Document:          m.DocumentColumns.toDomain(items),
		Status:            trade.OrderStatus(m.Status),
		QuotationID:       m.QuotationID,
		InvoiceID:         m.InvoiceID,
		ConfirmedAt:       m.ConfirmedAt,
		ShippedAt:         m.ShippedAt,
		DeliveredAt:       m.DeliveredAt,
		CancelledAt:       m.CancelledAt,
		CancelReason:      m.CancelReason,
	}
}

// SalesOrderModelFromDomain builds a model from a domain order
func SalesOrderModelFromDomain(o *trade.SalesOrder) *SalesOrderModel {
	m := &SalesOrderModel{
		DocumentColumns: documentColumnsFromDomain(&o.Document),
		Status:          string(o.Status),
		QuotationID:     o.QuotationID,
		InvoiceID:       o.InvoiceID,
		ConfirmedAt:     o.ConfirmedAt,
		ShippedAt:       o.ShippedAt,
		DeliveredAt:     o.DeliveredAt,
		CancelledAt:     o.CancelledAt,
		CancelReason:    o.CancelReason,
	}
	m.FromAggregate(o.BaseAggregateRoot)
	return m
}

// InvoiceModel is the persistence model for trade.Invoice
type InvoiceModel struct {
	AggregateModel
	DocumentColumns `gorm:"embedded"`
	Status          string     `gorm:"type:varchar(20);not null;index"`
	OrderID         *uuid.UUID `gorm:"type:uuid;index"`
	DueDate         *time.Time
	SentAt          *time.Time
	PaidAt          *time.Time
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the model and its item rows to a domain invoice
func (m *InvoiceModel) ToDomain(items []LineItemModel) *trade.Invoice {
	return &trade.Invoice{
		BaseAggregateRoot: m.ToAggregate(),
		Document:          m.DocumentColumns.toDomain(items),
		Status:            trade.InvoiceStatus(m.Status),
		OrderID:           m.OrderID,
		DueDate:           m.DueDate,
		SentAt:            m.SentAt,
		PaidAt:            m.PaidAt,
	}
}

// InvoiceModelFromDomain builds a model from a domain invoice
func InvoiceModelFromDomain(i *trade.Invoice) *InvoiceModel {
	m := &InvoiceModel{
		DocumentColumns: documentColumnsFromDomain(&i.Document),
		Status:          string(i.Status),
		OrderID:         i.OrderID,
		DueDate:         i.DueDate,
		SentAt:          i.SentAt,
		PaidAt:          i.PaidAt,
	}
	m.FromAggregate(i.BaseAggregateRoot)
	return m
}

// AllModels lists every model for AutoMigrate in tests and local setups.
func AllModels() []any {
	return []any{
		&ProductModel{},
		&StockMovementModel{},
		&QuotationModel{},
		&SalesOrderModel{},
		&InvoiceModel{},
		&LineItemModel{},
	}
}
