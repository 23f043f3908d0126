package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/erp/stockdesk/internal/domain/shared"
	"github.com/erp/stockdesk/internal/domain/trade"
)

// InvoiceService reads invoices and moves them through their lifecycle
type InvoiceService struct {
	documentSupport
	repo trade.InvoiceRepository
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(repo trade.InvoiceRepository, logger *zap.Logger) *InvoiceService {
	return &InvoiceService{
		documentSupport: newDocumentSupport(nil, logger),
		repo:            repo,
	}
}

// Get returns an invoice by id
func (s *InvoiceService) Get(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// List returns a page of invoices
func (s *InvoiceService) List(ctx context.Context, filter DocumentListFilter) (*shared.Paginated[InvoiceResponse], error) {
	f := filter.toDomain()
	rows, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return nil, err
	}

	items := make([]InvoiceResponse, len(rows))
	for i := range rows {
		items[i] = ToInvoiceResponse(&rows[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// Send issues a draft invoice
func (s *InvoiceService) Send(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	return s.transition(ctx, id, (*trade.Invoice).Send)
}

// MarkPaid records payment
func (s *InvoiceService) MarkPaid(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	return s.transition(ctx, id, (*trade.Invoice).MarkPaid)
}

// MarkOverdue flags a sent invoice as overdue
func (s *InvoiceService) MarkOverdue(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	return s.transition(ctx, id, (*trade.Invoice).MarkOverdue)
}

// Cancel voids an unpaid invoice
func (s *InvoiceService) Cancel(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	return s.transition(ctx, id, (*trade.Invoice).Cancel)
}

// OverdueSweepResult summarizes one MarkOverdueInvoices run
type OverdueSweepResult struct {
	Checked int
	Marked  int
	Failed  int
}

// MarkOverdueInvoices flags every sent invoice whose due date is before now.
// A failure on one invoice is logged and does not stop the sweep.
func (s *InvoiceService) MarkOverdueInvoices(ctx context.Context, now time.Time) (*OverdueSweepResult, error) {
	filter := shared.Filter{Filters: map[string]interface{}{"status": string(trade.InvoiceStatusSent)}}
	rows, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := &OverdueSweepResult{Checked: len(rows)}
	for i := range rows {
		inv := &rows[i]
		if !inv.IsOverdueAt(now) {
			continue
		}
		if _, err := s.transition(ctx, inv.ID, (*trade.Invoice).MarkOverdue); err != nil {
			result.Failed++
			s.logger.Warn("Failed to mark invoice overdue",
				zap.String("invoice_id", inv.ID.String()),
				zap.Error(err),
			)
			continue
		}
		result.Marked++
	}
	return result, nil
}

func (s *InvoiceService) transition(ctx context.Context, id uuid.UUID, fn func(*trade.Invoice) error) (*InvoiceResponse, error) {
	inv, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	from := inv.Status
	if err := fn(inv); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, inv); err != nil {
		return nil, err
	}

	s.logger.Info("Invoice status changed",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(inv.Status)),
	)
	s.publishEvents(ctx, inv)

	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

func (s *InvoiceService) find(ctx context.Context, id uuid.UUID) (*trade.Invoice, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, trade.DocumentInvoice)
	}
	return inv, nil
}
