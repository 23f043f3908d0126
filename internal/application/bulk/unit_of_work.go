package bulk

import (
	"context"

	invapp "github.com/erp/stockdesk/internal/application/inventory"
	"github.com/erp/stockdesk/internal/domain/bulk"
)

// ScopedUnitOfWork runs every bulk item in its own inventory transaction, so
// a stock update either stores both the quantity and its movement or neither.
func ScopedUnitOfWork(scope invapp.TransactionScope) bulk.UnitOfWork {
	return func(ctx context.Context, write bulk.ItemWriter) error {
		return scope.Execute(ctx, func(repos invapp.TransactionalRepositories) error {
			return write(repos.ProductRepo(), repos.MovementRepo())
		})
	}
}
