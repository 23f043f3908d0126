package catalog

import (
	"context"

	"github.com/erp/stockdesk/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID; returns shared.ErrNotFound when missing
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindBySKU finds a product by its SKU
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// FindAll finds products matching the filter. Supported filter keys:
	// "category" (string) and "is_active" (bool).
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// ListAll returns every product, active and inactive, for aggregate views
	ListAll(ctx context.Context) ([]Product, error)

	// Save creates or updates a product. Updates are guarded by the aggregate
	// version and fail with shared.ErrConcurrencyConflict when stale.
	Save(ctx context.Context, product *Product) error

	// Delete permanently removes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsBySKU checks if a product with the given SKU exists
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
}
