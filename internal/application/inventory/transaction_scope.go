package inventory

import (
	"context"

	"github.com/erp/stockdesk/internal/domain/catalog"
	"github.com/erp/stockdesk/internal/domain/inventory"
)

// TransactionScope runs a unit of work against inventory repositories that
// share one database transaction. An error returned by fn rolls it back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories bound to the current
// transaction. A stock adjustment saves the product and appends its movement
// through the same pair, so both commit or neither does.
type TransactionalRepositories interface {
	ProductRepo() catalog.ProductRepository
	MovementRepo() inventory.StockMovementRepository
}

// NoOpTransactionScope runs fn directly against the given repositories.
// Used by tests and in-memory setups.
type NoOpTransactionScope struct {
	productRepo  catalog.ProductRepository
	movementRepo inventory.StockMovementRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(productRepo catalog.ProductRepository, movementRepo inventory.StockMovementRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{productRepo: productRepo, movementRepo: movementRepo}
}

// Execute calls fn without a transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ProductRepo returns the product repository
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// MovementRepo returns the movement repository
func (s *NoOpTransactionScope) MovementRepo() inventory.StockMovementRepository {
	return s.movementRepo
}

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
