package inventory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/erp/stockdesk/internal/domain/inventory"
	"github.com/erp/stockdesk/internal/domain/shared"
)

// StockAlertNotifier delivers a stock alert to a person or channel
type StockAlertNotifier interface {
	Notify(ctx context.Context, alert inventory.StockAlert) error
}

// StockAlertHandler reacts to StockBelowThreshold events. It logs every alert
// and forwards it to the notifier when one is configured.
type StockAlertHandler struct {
	logger   *zap.Logger
	notifier StockAlertNotifier
}

// NewStockAlertHandler creates a new StockAlertHandler
func NewStockAlertHandler(logger *zap.Logger) *StockAlertHandler {
	return &StockAlertHandler{logger: logger}
}

// WithNotifier sets the notifier
func (h *StockAlertHandler) WithNotifier(notifier StockAlertNotifier) *StockAlertHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *StockAlertHandler) EventTypes() []string {
	return []string{inventory.EventTypeStockBelowThreshold}
}

// Handle processes a StockBelowThresholdEvent. Notifier failures are logged
// and swallowed so they never fail the adjustment that raised the alert.
func (h *StockAlertHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*inventory.StockBelowThresholdEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeStockBelowThreshold, event.EventType())
	}
	alert := e.Alert

	h.logger.Warn("Stock below threshold",
		zap.String("product_id", alert.ProductID.String()),
		zap.String("sku", alert.SKU),
		zap.String("severity", string(alert.Severity)),
		zap.Int64("current_quantity", alert.CurrentQuantity),
		zap.Int64("min_level", alert.MinLevel),
		zap.String("message", alert.Message),
	)

	if h.notifier == nil {
		return nil
	}
	if err := h.notifier.Notify(ctx, alert); err != nil {
		h.logger.Error("Failed to send stock alert",
			zap.String("product_id", alert.ProductID.String()),
			zap.Error(err),
		)
	}
	return nil
}

var _ shared.EventHandler = (*StockAlertHandler)(nil)
