package inventory

import (
	"context"

	"github.com/erp/stockdesk/internal/domain/shared"
	"github.com/google/uuid"
)

// StockMovementRepository is the append-only audit log of stock adjustments
type StockMovementRepository interface {
	// Append stores a movement
	Append(ctx context.Context, movement *StockMovement) error

	// FindByProduct returns a product's movements, newest first
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]StockMovement, error)

	// CountByProduct counts a product's movements
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}
