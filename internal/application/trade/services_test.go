package trade

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/erp/stockdesk/internal/domain/shared"
	"github.com/erp/stockdesk/internal/domain/trade"
)

type tradeFixture struct {
	quotations *docStore[trade.Quotation]
	orders     *docStore[trade.SalesOrder]
	invoices   *docStore[trade.Invoice]
	publisher  *MockEventPublisher
	quotes     *QuotationService
	orderSvc   *SalesOrderService
	invoiceSvc *InvoiceService
}

func newTradeFixture(t *testing.T) *tradeFixture {
	f := &tradeFixture{
		quotations: newDocStore[trade.Quotation](),
		orders:     newDocStore[trade.SalesOrder](),
		invoices:   newDocStore[trade.Invoice](),
		publisher:  &MockEventPublisher{},
	}
	qRepo := memoryQuotationRepo{f.quotations}
	oRepo := memoryOrderRepo{f.orders}
	iRepo := memoryInvoiceRepo{f.invoices}
	scope := NewNoOpTransactionScope(qRepo, oRepo, iRepo)
	logger := zaptest.NewLogger(t)

	f.quotes = NewQuotationService(qRepo, scope, logger)
	f.orderSvc = NewSalesOrderService(oRepo, scope, logger)
	f.invoiceSvc = NewInvoiceService(iRepo, logger)
	f.quotes.SetEventPublisher(f.publisher)
	f.orderSvc.SetEventPublisher(f.publisher)
	f.invoiceSvc.SetEventPublisher(f.publisher)
	return f
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleQuotationRequest() CreateQuotationRequest {
	return CreateQuotationRequest{
		CustomerID:   uuid.New(),
		CustomerName: "Acme Ltd",
		TaxRate:      dec("20"),
		Discount:     &DiscountInput{Type: "percentage", Value: dec("10")},
		Items: []LineItemInput{
			{Description: "Widget", Quantity: dec("2"), UnitPrice: dec("50")},
			{Description: "Gadget", Quantity: dec("1"), UnitPrice: dec("30")},
		},
	}
}

func (f *tradeFixture) sentQuotation(t *testing.T) *QuotationResponse {
	t.Helper()
	ctx := context.Background()
	q, err := f.quotes.Create(ctx, sampleQuotationRequest())
	require.NoError(t, err)
	q, err = f.quotes.Send(ctx, q.ID)
	require.NoError(t, err)
	return q
}

func TestDiscountInput_Discount(t *testing.T) {
	t.Run("nil input means no discount", func(t *testing.T) {
		var in *DiscountInput
		assert.Equal(t, trade.NoDiscount(), in.Discount())
	})

	t.Run("empty type with zero value means no discount", func(t *testing.T) {
		assert.Equal(t, trade.NoDiscount(), (&DiscountInput{}).Discount())
	})

	t.Run("keeps unknown types for domain validation", func(t *testing.T) {
		d := (&DiscountInput{Type: "bogus", Value: dec("5")}).Discount()
		assert.Equal(t, trade.DiscountType("bogus"), d.Type)
	})
}

func TestQuotationService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("computes totals and issues a number", func(t *testing.T) {
		f := newTradeFixture(t)

		q, err := f.quotes.Create(ctx, sampleQuotationRequest())
		require.NoError(t, err)

		assert.Regexp(t, `^QT-\d{8}-[0-9A-F]{6}$`, q.Number)
		assert.Equal(t, trade.QuotationStatusDraft, q.Status)
		require.Len(t, q.Items, 2)
		assert.Equal(t, "100", q.Items[0].LineTotal.String())
		assert.Equal(t, "130", q.Totals.Subtotal.String())
		assert.Equal(t, "13", q.Totals.DiscountAmount.String())
		assert.Equal(t, "117", q.Totals.TaxableBase.String())
		assert.Equal(t, "23.4", q.Totals.Tax.String())
		assert.Equal(t, "140.4", q.Totals.Total.String())

		created := f.publisher.EventsOfType(trade.EventTypeDocumentCreated)
		require.Len(t, created, 1)
		assert.Equal(t, "140.4", created[0].(*trade.DocumentCreatedEvent).Total.String())
	})

	t.Run("rejects negative quantity with the domain code", func(t *testing.T) {
		f := newTradeFixture(t)
		req := sampleQuotationRequest()
		req.Items[1].Quantity = dec("-1")

		_, err := f.quotes.Create(ctx, req)
		require.Error(t, err)
		assert.Equal(t, "INVALID_QUANTITY", shared.CodeOf(err))
		assert.Equal(t, 0, f.quotations.saves)
	})

	t.Run("rejects tax rate above 100", func(t *testing.T) {
		f := newTradeFixture(t)
		req := sampleQuotationRequest()
		req.TaxRate = dec("120")

		_, err := f.quotes.Create(ctx, req)
		assert.ErrorIs(t, err, shared.ErrInvalidTaxRate)
	})

	t.Run("propagates repository failures", func(t *testing.T) {
		f := newTradeFixture(t)
		f.quotations.saveErr = errors.New("db down")

		_, err := f.quotes.Create(ctx, sampleQuotationRequest())
		assert.EqualError(t, err, "db down")
		assert.Empty(t, f.publisher.EventsOfType(trade.EventTypeDocumentCreated))
	})
}

func TestQuotationService_Items(t *testing.T) {
	ctx := context.Background()
	f := newTradeFixture(t)

	q, err := f.quotes.Create(ctx, CreateQuotationRequest{CustomerID: uuid.New(), CustomerName: "Acme"})
	require.NoError(t, err)
	assert.True(t, q.Totals.Total.IsZero())

	t.Run("add item recalculates", func(t *testing.T) {
		q, err = f.quotes.AddItem(ctx, q.ID, LineItemInput{Description: "Bolt", Quantity: dec("4"), UnitPrice: dec("2.5")})
		require.NoError(t, err)
		require.Len(t, q.Items, 1)
		assert.Equal(t, "10", q.Totals.Total.String())
	})

	t.Run("update item keeps description when empty", func(t *testing.T) {
		q, err = f.quotes.UpdateItem(ctx, q.ID, q.Items[0].ID, UpdateLineItemRequest{Quantity: dec("10"), UnitPrice: dec("2.5")})
		require.NoError(t, err)
		assert.Equal(t, "Bolt", q.Items[0].Description)
		assert.Equal(t, "25", q.Totals.Total.String())
	})

	t.Run("pricing applies fixed discount clamped at zero", func(t *testing.T) {
		q, err = f.quotes.SetPricing(ctx, q.ID, PricingRequest{
			TaxRate:  dec("10"),
			Discount: &DiscountInput{Type: "fixed", Value: dec("40")},
		})
		require.NoError(t, err)
		assert.Equal(t, "40", q.Totals.DiscountAmount.String())
		assert.True(t, q.Totals.TaxableBase.IsZero())
		assert.True(t, q.Totals.Total.IsZero())
	})

	t.Run("unknown item is reported", func(t *testing.T) {
		_, err := f.quotes.RemoveItem(ctx, q.ID, uuid.New())
		assert.Equal(t, "ITEM_NOT_FOUND", shared.CodeOf(err))
	})

	t.Run("remove item empties the document", func(t *testing.T) {
		q, err = f.quotes.RemoveItem(ctx, q.ID, q.Items[0].ID)
		require.NoError(t, err)
		assert.Empty(t, q.Items)
		assert.True(t, q.Totals.Subtotal.IsZero())
	})
}

func TestQuotationService_Lifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("sent quotation cannot be modified", func(t *testing.T) {
		f := newTradeFixture(t)
		q := f.sentQuotation(t)

		_, err := f.quotes.AddItem(ctx, q.ID, LineItemInput{Description: "Late", Quantity: dec("1"), UnitPrice: dec("1")})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("accept then reject is invalid", func(t *testing.T) {
		f := newTradeFixture(t)
		q := f.sentQuotation(t)

		q, err := f.quotes.Accept(ctx, q.ID)
		require.NoError(t, err)
		assert.Equal(t, trade.QuotationStatusAccepted, q.Status)
		assert.NotNil(t, q.DecidedAt)

		_, err = f.quotes.Reject(ctx, q.ID)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("draft can expire", func(t *testing.T) {
		f := newTradeFixture(t)
		q, err := f.quotes.Create(ctx, sampleQuotationRequest())
		require.NoError(t, err)

		q, err = f.quotes.Expire(ctx, q.ID)
		require.NoError(t, err)
		assert.Equal(t, trade.QuotationStatusExpired, q.Status)

		changes := f.publisher.EventsOfType(trade.EventTypeDocumentStatusChanged)
		require.Len(t, changes, 1)
		assert.Equal(t, "expired", changes[0].(*trade.DocumentStatusChangedEvent).ToStatus)
	})

	t.Run("missing quotation", func(t *testing.T) {
		f := newTradeFixture(t)
		_, err := f.quotes.Get(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Contains(t, err.Error(), "Quotation")
	})
}

func TestQuotationService_Convert(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an order and accepts the quotation", func(t *testing.T) {
		f := newTradeFixture(t)
		q := f.sentQuotation(t)

		order, err := f.quotes.Convert(ctx, q.ID)
		require.NoError(t, err)
		assert.Regexp(t, `^SO-\d{8}-[0-9A-F]{6}$`, order.Number)
		assert.Equal(t, trade.OrderStatusPending, order.Status)
		require.NotNil(t, order.QuotationID)
		assert.Equal(t, q.ID, *order.QuotationID)
		assert.Equal(t, q.Totals.Total.String(), order.Totals.Total.String())
		assert.NotEqual(t, q.Items[0].ID, order.Items[0].ID)

		stored, err := f.quotes.Get(ctx, q.ID)
		require.NoError(t, err)
		assert.Equal(t, trade.QuotationStatusAccepted, stored.Status)
		require.NotNil(t, stored.ConvertedOrderID)
		assert.Equal(t, order.ID, *stored.ConvertedOrderID)

		assert.Len(t, f.publisher.EventsOfType(trade.EventTypeDocumentConverted), 1)
	})

	t.Run("second conversion fails", func(t *testing.T) {
		f := newTradeFixture(t)
		q := f.sentQuotation(t)
		_, err := f.quotes.Convert(ctx, q.ID)
		require.NoError(t, err)

		_, err = f.quotes.Convert(ctx, q.ID)
		assert.ErrorIs(t, err, shared.ErrAlreadyConverted)
		assert.Len(t, f.orders.all(), 1)
	})

	t.Run("draft cannot convert", func(t *testing.T) {
		f := newTradeFixture(t)
		q, err := f.quotes.Create(ctx, sampleQuotationRequest())
		require.NoError(t, err)

		_, err = f.quotes.Convert(ctx, q.ID)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestQuotationService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockQuotationRepository)
	svc := NewQuotationService(repo, nil, zaptest.NewLogger(t))

	q, err := trade.NewQuotation("QT-1", uuid.New(), "Acme")
	require.NoError(t, err)
	customer := uuid.New()

	matchFilter := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 2 && f.PageSize == 1 && f.Filters["status"] == "draft" && f.Filters["customer_id"] == customer
	})
	repo.On("FindAll", ctx, matchFilter).Return([]trade.Quotation{*q}, nil)
	repo.On("Count", ctx, matchFilter).Return(int64(3), nil)

	page, err := svc.List(ctx, DocumentListFilter{Page: 2, PageSize: 1, Status: "draft", CustomerID: customer.String()})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "QT-1", page.Items[0].Number)
	repo.AssertExpectations(t)
}

func TestSalesOrderService_Lifecycle(t *testing.T) {
	ctx := context.Background()

	newOrder := func(t *testing.T, f *tradeFixture) *SalesOrderResponse {
		t.Helper()
		q := f.sentQuotation(t)
		order, err := f.quotes.Convert(ctx, q.ID)
		require.NoError(t, err)
		return order
	}

	t.Run("walks pending to delivered", func(t *testing.T) {
		f := newTradeFixture(t)
		order := newOrder(t, f)

		order, err := f.orderSvc.Confirm(ctx, order.ID)
		require.NoError(t, err)
		assert.NotNil(t, order.ConfirmedAt)
		order, err = f.orderSvc.Process(ctx, order.ID)
		require.NoError(t, err)
		order, err = f.orderSvc.Ship(ctx, order.ID)
		require.NoError(t, err)
		assert.NotNil(t, order.ShippedAt)
		order, err = f.orderSvc.Deliver(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, trade.OrderStatusDelivered, order.Status)

		_, err = f.orderSvc.Cancel(ctx, order.ID, CancelOrderRequest{Reason: "too late"})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("cancel records the reason", func(t *testing.T) {
		f := newTradeFixture(t)
		order := newOrder(t, f)

		order, err := f.orderSvc.Cancel(ctx, order.ID, CancelOrderRequest{Reason: "customer request"})
		require.NoError(t, err)
		assert.Equal(t, trade.OrderStatusCancelled, order.Status)
		assert.Equal(t, "customer request", order.CancelReason)
	})

	t.Run("shipping a pending order is invalid", func(t *testing.T) {
		f := newTradeFixture(t)
		order := newOrder(t, f)

		_, err := f.orderSvc.Ship(ctx, order.ID)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestSalesOrderService_Invoice(t *testing.T) {
	ctx := context.Background()

	confirmedOrder := func(t *testing.T, f *tradeFixture) *SalesOrderResponse {
		t.Helper()
		q := f.sentQuotation(t)
		order, err := f.quotes.Convert(ctx, q.ID)
		require.NoError(t, err)
		order, err = f.orderSvc.Confirm(ctx, order.ID)
		require.NoError(t, err)
		return order
	}

	t.Run("creates a draft invoice with the order totals", func(t *testing.T) {
		f := newTradeFixture(t)
		order := confirmedOrder(t, f)
		due := time.Now().Add(30 * 24 * time.Hour)

		inv, err := f.orderSvc.Invoice(ctx, order.ID, InvoiceOrderRequest{DueDate: &due})
		require.NoError(t, err)
		assert.Regexp(t, `^INV-\d{8}-[0-9A-F]{6}$`, inv.Number)
		assert.Equal(t, trade.InvoiceStatusDraft, inv.Status)
		require.NotNil(t, inv.OrderID)
		assert.Equal(t, order.ID, *inv.OrderID)
		assert.Equal(t, "140.4", inv.Totals.Total.String())

		stored, err := f.orderSvc.Get(ctx, order.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.InvoiceID)
		assert.Equal(t, inv.ID, *stored.InvoiceID)
	})

	t.Run("pending order cannot be invoiced", func(t *testing.T) {
		f := newTradeFixture(t)
		q := f.sentQuotation(t)
		order, err := f.quotes.Convert(ctx, q.ID)
		require.NoError(t, err)

		_, err = f.orderSvc.Invoice(ctx, order.ID, InvoiceOrderRequest{})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("order is invoiced once", func(t *testing.T) {
		f := newTradeFixture(t)
		order := confirmedOrder(t, f)
		_, err := f.orderSvc.Invoice(ctx, order.ID, InvoiceOrderRequest{})
		require.NoError(t, err)

		_, err = f.orderSvc.Invoice(ctx, order.ID, InvoiceOrderRequest{})
		assert.ErrorIs(t, err, shared.ErrAlreadyConverted)
		assert.Len(t, f.invoices.all(), 1)
	})
}

func TestInvoiceService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	f := newTradeFixture(t)

	q := f.sentQuotation(t)
	order, err := f.quotes.Convert(ctx, q.ID)
	require.NoError(t, err)
	_, err = f.orderSvc.Confirm(ctx, order.ID)
	require.NoError(t, err)
	inv, err := f.orderSvc.Invoice(ctx, order.ID, InvoiceOrderRequest{})
	require.NoError(t, err)

	t.Run("draft cannot be paid", func(t *testing.T) {
		_, err := f.invoiceSvc.MarkPaid(ctx, inv.ID)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("send, overdue, paid", func(t *testing.T) {
		got, err := f.invoiceSvc.Send(ctx, inv.ID)
		require.NoError(t, err)
		assert.NotNil(t, got.SentAt)

		got, err = f.invoiceSvc.MarkOverdue(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, trade.InvoiceStatusOverdue, got.Status)

		got, err = f.invoiceSvc.MarkPaid(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, trade.InvoiceStatusPaid, got.Status)
		assert.NotNil(t, got.PaidAt)
	})

	t.Run("paid invoice cannot be cancelled", func(t *testing.T) {
		_, err := f.invoiceSvc.Cancel(ctx, inv.ID)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("list returns stored invoices", func(t *testing.T) {
		page, err := f.invoiceSvc.List(ctx, DocumentListFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 20, page.PageSize)
	})
}

func TestInvoiceService_MarkOverdueInvoices(t *testing.T) {
	ctx := context.Background()
	f := newTradeFixture(t)
	now := time.Now()

	issue := func(due time.Time, send bool) uuid.UUID {
		q := f.sentQuotation(t)
		order, err := f.quotes.Convert(ctx, q.ID)
		require.NoError(t, err)
		_, err = f.orderSvc.Confirm(ctx, order.ID)
		require.NoError(t, err)
		inv, err := f.orderSvc.Invoice(ctx, order.ID, InvoiceOrderRequest{DueDate: &due})
		require.NoError(t, err)
		if send {
			_, err = f.invoiceSvc.Send(ctx, inv.ID)
			require.NoError(t, err)
		}
		return inv.ID
	}

	pastDue := issue(now.Add(-48*time.Hour), true)
	notDue := issue(now.Add(48*time.Hour), true)
	draft := issue(now.Add(-48*time.Hour), false)

	result, err := f.invoiceSvc.MarkOverdueInvoices(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Marked)
	assert.Equal(t, 0, result.Failed)

	for id, want := range map[uuid.UUID]trade.InvoiceStatus{
		pastDue: trade.InvoiceStatusOverdue,
		notDue:  trade.InvoiceStatusSent,
		draft:   trade.InvoiceStatusDraft,
	} {
		got, err := f.invoiceSvc.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, got.Status)
	}

	t.Run("second run is a no-op", func(t *testing.T) {
		result, err := f.invoiceSvc.MarkOverdueInvoices(ctx, now)
		require.NoError(t, err)
		assert.Equal(t, 0, result.Marked)
	})
}

func TestPreviewTotals(t *testing.T) {
	t.Run("computes totals without storing", func(t *testing.T) {
		resp, err := PreviewTotals(TotalsPreviewRequest{
			Items: []LineItemInput{
				{Description: "Widget", Quantity: dec("3"), UnitPrice: dec("10")},
			},
			TaxRate:  dec("10"),
			Discount: &DiscountInput{Type: "fixed", Value: dec("5")},
		})
		require.NoError(t, err)
		assert.Equal(t, "30", resp.Items[0].LineTotal.String())
		assert.Equal(t, "25", resp.Totals.TaxableBase.String())
		assert.Equal(t, "2.5", resp.Totals.Tax.String())
		assert.Equal(t, "27.5", resp.Totals.Total.String())
	})

	t.Run("empty document totals zero", func(t *testing.T) {
		resp, err := PreviewTotals(TotalsPreviewRequest{})
		require.NoError(t, err)
		assert.True(t, resp.Totals.Total.IsZero())
	})

	t.Run("negative discount is rejected", func(t *testing.T) {
		_, err := PreviewTotals(TotalsPreviewRequest{
			Discount: &DiscountInput{Type: "fixed", Value: dec("-1")},
		})
		assert.ErrorIs(t, err, shared.ErrInvalidDiscount)
	})

	t.Run("empty description is rejected", func(t *testing.T) {
		_, err := PreviewTotals(TotalsPreviewRequest{
			Items: []LineItemInput{{Quantity: dec("1"), UnitPrice: dec("1")}},
		})
		assert.Equal(t, "INVALID_DESCRIPTION", shared.CodeOf(err))
	})
}

func TestDocumentNumberer_Next(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2026, 3, 9, 23, 0, 0, 0, time.UTC)

	t.Run("retries on collision", func(t *testing.T) {
		suffixes := []string{"AAAAAA", "BBBBBB"}
		next := func() string {
			s := suffixes[0]
			suffixes = suffixes[1:]
			return s
		}
		n := &DocumentNumberer{
			now:    func() time.Time { return fixed },
			suffix: next,
		}
		number, err := n.Next(ctx, trade.DocumentInvoice, func(_ context.Context, number string) (bool, error) {
			return number == "INV-20260309-AAAAAA", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "INV-20260309-BBBBBB", number)
	})

	t.Run("gives up after repeated collisions", func(t *testing.T) {
		n := &DocumentNumberer{now: func() time.Time { return fixed }, suffix: func() string { return "XXXXXX" }}
		_, err := n.Next(ctx, trade.DocumentQuotation, func(context.Context, string) (bool, error) { return true, nil })
		assert.Equal(t, "NUMBER_EXHAUSTED", shared.CodeOf(err))
	})

	t.Run("propagates lookup errors", func(t *testing.T) {
		n := NewDocumentNumberer()
		_, err := n.Next(ctx, trade.DocumentSalesOrder, func(context.Context, string) (bool, error) {
			return false, errors.New("lookup failed")
		})
		assert.EqualError(t, err, "lookup failed")
	})
}
