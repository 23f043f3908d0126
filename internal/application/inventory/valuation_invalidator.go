package inventory

import (
	"context"

	"go.uber.org/zap"

	"github.com/erp/stockdesk/internal/domain/catalog"
	"github.com/erp/stockdesk/internal/domain/inventory"
	"github.com/erp/stockdesk/internal/domain/shared"
)

// ValuationInvalidator drops the cached valuation report whenever an event
// changes a value that feeds it (price, quantity, threshold, category or
// the product set itself).
type ValuationInvalidator struct {
	cache  ValuationCache
	logger *zap.Logger
}

// NewValuationInvalidator creates a new ValuationInvalidator
func NewValuationInvalidator(cache ValuationCache, logger *zap.Logger) *ValuationInvalidator {
	return &ValuationInvalidator{cache: cache, logger: logger}
}

// EventTypes returns the product and stock events that affect valuation
func (h *ValuationInvalidator) EventTypes() []string {
	return []string{
		catalog.EventTypeProductCreated,
		catalog.EventTypeProductUpdated,
		catalog.EventTypeProductStatusChanged,
		catalog.EventTypeProductPriceChanged,
		catalog.EventTypeProductDeleted,
		inventory.EventTypeStockAdjusted,
	}
}

// Handle invalidates the cache. A failure is returned so the bus logs it; the
// stale entry still expires with its TTL.
func (h *ValuationInvalidator) Handle(ctx context.Context, event shared.DomainEvent) error {
	if err := h.cache.Invalidate(ctx); err != nil {
		return err
	}
	h.logger.Debug("Valuation cache invalidated", zap.String("event_type", event.EventType()))
	return nil
}

var _ shared.EventHandler = (*ValuationInvalidator)(nil)
