package inventory

import (
	"github.com/erp/stockdesk/internal/domain/catalog"
	"github.com/erp/stockdesk/internal/domain/shared"
	"github.com/google/uuid"
)

// Event type constants
const (
	EventTypeStockAdjusted       = "StockAdjusted"
	EventTypeStockBelowThreshold = "StockBelowThreshold"
)

// StockAdjustedEvent is raised when an adjustment changes a product's stock
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID      `json:"product_id"`
	MovementID  uuid.UUID      `json:"movement_id"`
	Mode        AdjustmentMode `json:"mode"`
	OldQuantity int64          `json:"old_quantity"`
	NewQuantity int64          `json:"new_quantity"`
	Delta       int64          `json:"delta"`
	Reason      string         `json:"reason"`
}

// NewStockAdjustedEvent creates a new StockAdjustedEvent
func NewStockAdjustedEvent(m StockMovement) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, catalog.AggregateTypeProduct, m.ProductID),
		ProductID:       m.ProductID,
		MovementID:      m.ID,
		Mode:            m.Mode,
		OldQuantity:     m.OldQuantity,
		NewQuantity:     m.NewQuantity,
		Delta:           m.Delta,
		Reason:          m.Reason,
	}
}

// StockBelowThresholdEvent is raised when a product's stock ends at or below
// its minimum level. It replaces the console's transient warning toast.
type StockBelowThresholdEvent struct {
	shared.BaseDomainEvent
	Alert StockAlert `json:"alert"`
}

// NewStockBelowThresholdEvent creates a new StockBelowThresholdEvent
func NewStockBelowThresholdEvent(alert StockAlert) *StockBelowThresholdEvent {
	return &StockBelowThresholdEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowThreshold, catalog.AggregateTypeProduct, alert.ProductID),
		Alert:           alert,
	}
}

// AdjustmentEvents returns the events for a persisted movement: always a
// StockAdjusted, plus StockBelowThreshold when the product now warrants an
// alert.
func AdjustmentEvents(p *catalog.Product, m StockMovement) []shared.DomainEvent {
	events := []shared.DomainEvent{NewStockAdjustedEvent(m)}
	if alert, ok := NewStockAlert(p); ok {
		events = append(events, NewStockBelowThresholdEvent(alert))
	}
	return events
}
