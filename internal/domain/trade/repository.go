package trade

import (
	"context"

	"github.com/erp/stockdesk/internal/domain/shared"
	"github.com/google/uuid"
)

// QuotationRepository defines the interface for quotation persistence
type QuotationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Quotation, error)
	// FindAll supports the "status" and "customer_id" filter keys
	FindAll(ctx context.Context, filter shared.Filter) ([]Quotation, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// Save creates or updates the header and replaces its items
	Save(ctx context.Context, quotation *Quotation) error
	ExistsByNumber(ctx context.Context, number string) (bool, error)
}

// SalesOrderRepository defines the interface for sales order persistence
type SalesOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SalesOrder, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]SalesOrder, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, order *SalesOrder) error
	ExistsByNumber(ctx context.Context, number string) (bool, error)
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Invoice, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, invoice *Invoice) error
	ExistsByNumber(ctx context.Context, number string) (bool, error)
}
