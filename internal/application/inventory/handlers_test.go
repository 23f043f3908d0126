package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/erp/stockdesk/internal/domain/catalog"
	"github.com/erp/stockdesk/internal/domain/inventory"
)

type recordingNotifier struct {
	alerts []inventory.StockAlert
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, alert inventory.StockAlert) error {
	n.alerts = append(n.alerts, alert)
	return n.err
}

func TestStockAlertHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("logs and notifies", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		notifier := &recordingNotifier{}
		h := NewStockAlertHandler(zap.New(core)).WithNotifier(notifier)

		p := newTestProduct(t, "Widget", 0, 5, 1)
		alert, ok := inventory.NewStockAlert(p)
		require.True(t, ok)

		require.NoError(t, h.Handle(ctx, inventory.NewStockBelowThresholdEvent(alert)))
		require.Len(t, notifier.alerts, 1)
		assert.Equal(t, inventory.SeverityCritical, notifier.alerts[0].Severity)
		assert.Equal(t, 1, logs.FilterMessage("Stock below threshold").Len())
	})

	t.Run("notifier failure is swallowed", func(t *testing.T) {
		notifier := &recordingNotifier{err: errors.New("smtp down")}
		h := NewStockAlertHandler(zap.NewNop()).WithNotifier(notifier)

		p := newTestProduct(t, "Widget", 1, 5, 1)
		alert, _ := inventory.NewStockAlert(p)
		assert.NoError(t, h.Handle(ctx, inventory.NewStockBelowThresholdEvent(alert)))
	})

	t.Run("rejects other events", func(t *testing.T) {
		h := NewStockAlertHandler(zap.NewNop())
		p := newTestProduct(t, "Widget", 1, 5, 1)
		err := h.Handle(ctx, catalog.NewProductUpdatedEvent(p))
		assert.Error(t, err)
	})

	assert.Equal(t, []string{inventory.EventTypeStockBelowThreshold}, NewStockAlertHandler(zap.NewNop()).EventTypes())
}

func TestValuationInvalidator(t *testing.T) {
	ctx := context.Background()
	p := newTestProduct(t, "Widget", 1, 5, 1)

	t.Run("invalidates on product events", func(t *testing.T) {
		cache := new(MockValuationCache)
		cache.On("Invalidate", ctx).Return(nil).Once()
		h := NewValuationInvalidator(cache, zap.NewNop())

		require.NoError(t, h.Handle(ctx, catalog.NewProductPriceChangedEvent(p, p.Price)))
		cache.AssertExpectations(t)
		assert.Contains(t, h.EventTypes(), inventory.EventTypeStockAdjusted)
	})

	t.Run("propagates cache errors", func(t *testing.T) {
		cache := new(MockValuationCache)
		cache.On("Invalidate", ctx).Return(errors.New("redis down"))
		h := NewValuationInvalidator(cache, zap.NewNop())

		assert.Error(t, h.Handle(ctx, catalog.NewProductUpdatedEvent(p)))
	})
}
