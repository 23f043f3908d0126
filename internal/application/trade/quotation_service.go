package trade

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/erp/stockdesk/internal/domain/shared"
	"github.com/erp/stockdesk/internal/domain/trade"
)

// QuotationService manages quotations and their conversion to sales orders
type QuotationService struct {
	documentSupport
	repo trade.QuotationRepository
}

// NewQuotationService creates a new QuotationService
func NewQuotationService(repo trade.QuotationRepository, txScope TransactionScope, logger *zap.Logger) *QuotationService {
	return &QuotationService{
		documentSupport: newDocumentSupport(txScope, logger),
		repo:            repo,
	}
}

// Create creates a draft quotation with a generated number
func (s *QuotationService) Create(ctx context.Context, req CreateQuotationRequest) (*QuotationResponse, error) {
	number, err := s.numberer.Next(ctx, trade.DocumentQuotation, s.repo.ExistsByNumber)
	if err != nil {
		return nil, err
	}

	q, err := trade.NewQuotation(number, req.CustomerID, req.CustomerName)
	if err != nil {
		return nil, err
	}
	q.Notes = req.Notes
	if err := addItems(req.Items, func(item LineItemInput) error {
		_, err := q.AddItem(item.ProductID, item.Description, item.Quantity, item.UnitPrice)
		return err
	}); err != nil {
		return nil, err
	}
	if err := q.SetPricing(req.TaxRate, req.Discount.Discount()); err != nil {
		return nil, err
	}
	if err := q.SetValidUntil(req.ValidUntil); err != nil {
		return nil, err
	}
	// The created event is raised before items are added; reissue it with
	// the final total.
	q.ClearDomainEvents()
	q.AddDomainEvent(trade.NewDocumentCreatedEvent(trade.DocumentQuotation, q.ID, &q.Document))

	if err := s.repo.Save(ctx, q); err != nil {
		return nil, err
	}

	s.logger.Info("Quotation created",
		zap.String("quotation_id", q.ID.String()),
		zap.String("number", q.Number),
		zap.Int("items", q.ItemCount()),
	)
	s.recordCreated(ctx, trade.DocumentQuotation)
	s.publishEvents(ctx, q)

	resp := ToQuotationResponse(q)
	return &resp, nil
}

// Get returns a quotation by id
func (s *QuotationService) Get(ctx context.Context, id uuid.UUID) (*QuotationResponse, error) {
	q, err := s.find(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	resp := ToQuotationResponse(q)
	return &resp, nil
}

// List returns a page of quotations
func (s *QuotationService) List(ctx context.Context, filter DocumentListFilter) (*shared.Paginated[QuotationResponse], error) {
	f := filter.toDomain()
	rows, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return nil, err
	}

	items := make([]QuotationResponse, len(rows))
	for i := range rows {
		items[i] = ToQuotationResponse(&rows[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// AddItem adds a line item to a draft quotation
func (s *QuotationService) AddItem(ctx context.Context, id uuid.UUID, req LineItemInput) (*QuotationResponse, error) {
	return s.modify(ctx, id, func(q *trade.Quotation) error {
		_, err := q.AddItem(req.ProductID, req.Description, req.Quantity, req.UnitPrice)
		return err
	})
}

// UpdateItem changes a line item of a draft quotation
func (s *QuotationService) UpdateItem(ctx context.Context, id, itemID uuid.UUID, req UpdateLineItemRequest) (*QuotationResponse, error) {
	return s.modify(ctx, id, func(q *trade.Quotation) error {
		return q.UpdateItem(itemID, req.Description, req.Quantity, req.UnitPrice)
	})
}

// RemoveItem deletes a line item from a draft quotation
func (s *QuotationService) RemoveItem(ctx context.Context, id, itemID uuid.UUID) (*QuotationResponse, error) {
	return s.modify(ctx, id, func(q *trade.Quotation) error {
		return q.RemoveItem(itemID)
	})
}

// SetPricing replaces the tax rate and discount of a draft quotation
func (s *QuotationService) SetPricing(ctx context.Context, id uuid.UUID, req PricingRequest) (*QuotationResponse, error) {
	return s.modify(ctx, id, func(q *trade.Quotation) error {
		return q.SetPricing(req.TaxRate, req.Discount.Discount())
	})
}

// Send marks a quotation as sent
func (s *QuotationService) Send(ctx context.Context, id uuid.UUID) (*QuotationResponse, error) {
	return s.modify(ctx, id, (*trade.Quotation).Send)
}

// Accept records the customer's acceptance
func (s *QuotationService) Accept(ctx context.Context, id uuid.UUID) (*QuotationResponse, error) {
	return s.modify(ctx, id, (*trade.Quotation).Accept)
}

// Reject records the customer's rejection
func (s *QuotationService) Reject(ctx context.Context, id uuid.UUID) (*QuotationResponse, error) {
	return s.modify(ctx, id, (*trade.Quotation).Reject)
}

// Expire closes a quotation without a decision
func (s *QuotationService) Expire(ctx context.Context, id uuid.UUID) (*QuotationResponse, error) {
	return s.modify(ctx, id, (*trade.Quotation).Expire)
}

// Convert creates a sales order from a sent or accepted quotation. The
// quotation and the new order are saved in one transaction.
func (s *QuotationService) Convert(ctx context.Context, id uuid.UUID) (*SalesOrderResponse, error) {
	var (
		quotation *trade.Quotation
		order     *trade.SalesOrder
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		q, err := s.find(ctx, repos.QuotationRepo(), id)
		if err != nil {
			return err
		}
		if q.IsConverted() {
			return shared.ErrAlreadyConverted
		}

		number, err := s.numberer.Next(ctx, trade.DocumentSalesOrder, repos.SalesOrderRepo().ExistsByNumber)
		if err != nil {
			return err
		}
		o, err := q.ConvertToOrder(number)
		if err != nil {
			return err
		}
		if err := repos.SalesOrderRepo().Save(ctx, o); err != nil {
			return err
		}
		if err := repos.QuotationRepo().Save(ctx, q); err != nil {
			return err
		}

		quotation, order = q, o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Quotation converted to sales order",
		zap.String("quotation_id", quotation.ID.String()),
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.Number),
	)
	s.recordCreated(ctx, trade.DocumentSalesOrder)
	s.publishEvents(ctx, quotation, order)

	resp := ToSalesOrderResponse(order)
	return &resp, nil
}

// modify loads a quotation, applies fn and saves it
func (s *QuotationService) modify(ctx context.Context, id uuid.UUID, fn func(*trade.Quotation) error) (*QuotationResponse, error) {
	q, err := s.find(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if err := fn(q); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, q); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, q)

	resp := ToQuotationResponse(q)
	return &resp, nil
}

func (s *QuotationService) find(ctx context.Context, repo trade.QuotationRepository, id uuid.UUID) (*trade.Quotation, error) {
	q, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, trade.DocumentQuotation)
	}
	return q, nil
}
