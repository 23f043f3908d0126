package trade

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/erp/stockdesk/internal/domain/shared"
	"github.com/erp/stockdesk/internal/domain/trade"
)

// SalesOrderService drives the sales order lifecycle and invoicing
type SalesOrderService struct {
	documentSupport
	repo trade.SalesOrderRepository
}

// NewSalesOrderService creates a new SalesOrderService
func NewSalesOrderService(repo trade.SalesOrderRepository, txScope TransactionScope, logger *zap.Logger) *SalesOrderService {
	return &SalesOrderService{
		documentSupport: newDocumentSupport(txScope, logger),
		repo:            repo,
	}
}

// Get returns a sales order by id
func (s *SalesOrderService) Get(ctx context.Context, id uuid.UUID) (*SalesOrderResponse, error) {
	o, err := s.find(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	resp := ToSalesOrderResponse(o)
	return &resp, nil
}

// List returns a page of sales orders
func (s *SalesOrderService) List(ctx context.Context, filter DocumentListFilter) (*shared.Paginated[SalesOrderResponse], error) {
	f := filter.toDomain()
	rows, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return nil, err
	}

	items := make([]SalesOrderResponse, len(rows))
	for i := range rows {
		items[i] = ToSalesOrderResponse(&rows[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// Confirm confirms a pending order
func (s *SalesOrderService) Confirm(ctx context.Context, id uuid.UUID) (*SalesOrderResponse, error) {
	return s.transition(ctx, id, (*trade.SalesOrder).Confirm)
}

// Process starts fulfilment of a confirmed order
func (s *SalesOrderService) Process(ctx context.Context, id uuid.UUID) (*SalesOrderResponse, error) {
	return s.transition(ctx, id, (*trade.SalesOrder).StartProcessing)
}

// Ship marks an order as shipped
func (s *SalesOrderService) Ship(ctx context.Context, id uuid.UUID) (*SalesOrderResponse, error) {
	return s.transition(ctx, id, (*trade.SalesOrder).Ship)
}

// Deliver marks an order as delivered
func (s *SalesOrderService) Deliver(ctx context.Context, id uuid.UUID) (*SalesOrderResponse, error) {
	return s.transition(ctx, id, (*trade.SalesOrder).Deliver)
}

// Cancel cancels an order with a reason
func (s *SalesOrderService) Cancel(ctx context.Context, id uuid.UUID, req CancelOrderRequest) (*SalesOrderResponse, error) {
	return s.transition(ctx, id, func(o *trade.SalesOrder) error {
		return o.Cancel(req.Reason)
	})
}

// Invoice creates the invoice for an order. The order and the invoice are
// saved in one transaction.
func (s *SalesOrderService) Invoice(ctx context.Context, id uuid.UUID, req InvoiceOrderRequest) (*InvoiceResponse, error) {
	var (
		order   *trade.SalesOrder
		invoice *trade.Invoice
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := s.find(ctx, repos.SalesOrderRepo(), id)
		if err != nil {
			return err
		}
		if o.IsInvoiced() {
			return shared.ErrAlreadyConverted
		}

		number, err := s.numberer.Next(ctx, trade.DocumentInvoice, repos.InvoiceRepo().ExistsByNumber)
		if err != nil {
			return err
		}
		inv, err := o.ConvertToInvoice(number, req.DueDate)
		if err != nil {
			return err
		}
		if err := repos.InvoiceRepo().Save(ctx, inv); err != nil {
			return err
		}
		if err := repos.SalesOrderRepo().Save(ctx, o); err != nil {
			return err
		}

		order, invoice = o, inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Sales order invoiced",
		zap.String("order_id", order.ID.String()),
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.Number),
	)
	s.recordCreated(ctx, trade.DocumentInvoice)
	s.publishEvents(ctx, order, invoice)

	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

func (s *SalesOrderService) transition(ctx context.Context, id uuid.UUID, fn func(*trade.SalesOrder) error) (*SalesOrderResponse, error) {
	o, err := s.find(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	from := o.Status
	if err := fn(o); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info("Sales order status changed",
		zap.String("order_id", o.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(o.Status)),
	)
	s.publishEvents(ctx, o)

	resp := ToSalesOrderResponse(o)
	return &resp, nil
}

func (s *SalesOrderService) find(ctx context.Context, repo trade.SalesOrderRepository, id uuid.UUID) (*trade.SalesOrder, error) {
	o, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, trade.DocumentSalesOrder)
	}
	return o, nil
}
