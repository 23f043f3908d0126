package trade

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/erp/stockdesk/internal/domain/shared"
	"github.com/erp/stockdesk/internal/domain/trade"
)

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (m *MockEventPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *MockEventPublisher) EventsOfType(eventType string) []shared.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]shared.DomainEvent, 0)
	for _, e := range m.events {
		if e.EventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}

// docStore is an in-memory document repository keyed by id
type docStore[T any] struct {
	mu      sync.Mutex
	rows    map[uuid.UUID]*T
	numbers map[string]bool
	saves   int
	saveErr error
}

func newDocStore[T any]() *docStore[T] {
	return &docStore[T]{rows: make(map[uuid.UUID]*T), numbers: make(map[string]bool)}
}

func (s *docStore[T]) find(id uuid.UUID) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (s *docStore[T]) all() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, *row)
	}
	return out
}

func (s *docStore[T]) save(id uuid.UUID, number string, row *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	cp := *row
	if agg, ok := any(&cp).(shared.AggregateRoot); ok {
		agg.ClearDomainEvents()
	}
	s.rows[id] = &cp
	s.numbers[number] = true
	s.saves++
	return nil
}

func (s *docStore[T]) exists(number string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.numbers[number]
}

type memoryQuotationRepo struct{ *docStore[trade.Quotation] }

func (r memoryQuotationRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.Quotation, error) {
	return r.find(id)
}

func (r memoryQuotationRepo) FindAll(_ context.Context, _ shared.Filter) ([]trade.Quotation, error) {
	return r.all(), nil
}

func (r memoryQuotationRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.all())), nil
}

func (r memoryQuotationRepo) Save(_ context.Context, q *trade.Quotation) error {
	return r.save(q.ID, q.Number, q)
}

func (r memoryQuotationRepo) ExistsByNumber(_ context.Context, number string) (bool, error) {
	return r.exists(number), nil
}

type memoryOrderRepo struct{ *docStore[trade.SalesOrder] }

func (r memoryOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.SalesOrder, error) {
	return r.find(id)
}

func (r memoryOrderRepo) FindAll(_ context.Context, _ shared.Filter) ([]trade.SalesOrder, error) {
	return r.all(), nil
}

func (r memoryOrderRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.all())), nil
}

func (r memoryOrderRepo) Save(_ context.Context, o *trade.SalesOrder) error {
	return r.save(o.ID, o.Number, o)
}

func (r memoryOrderRepo) ExistsByNumber(_ context.Context, number string) (bool, error) {
	return r.exists(number), nil
}

type memoryInvoiceRepo struct{ *docStore[trade.Invoice] }

func (r memoryInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.Invoice, error) {
	return r.find(id)
}

func (r memoryInvoiceRepo) FindAll(_ context.Context, _ shared.Filter) ([]trade.Invoice, error) {
	return r.all(), nil
}

func (r memoryInvoiceRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.all())), nil
}

func (r memoryInvoiceRepo) Save(_ context.Context, inv *trade.Invoice) error {
	return r.save(inv.ID, inv.Number, inv)
}

func (r memoryInvoiceRepo) ExistsByNumber(_ context.Context, number string) (bool, error) {
	return r.exists(number), nil
}

// MockQuotationRepository is a mock implementation of trade.QuotationRepository
type MockQuotationRepository struct {
	mock.Mock
}

func (m *MockQuotationRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Quotation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Quotation, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]trade.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuotationRepository) Save(ctx context.Context, q *trade.Quotation) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockQuotationRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	args := m.Called(ctx, number)
	return args.Bool(0), args.Error(1)
}
