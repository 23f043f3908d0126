package trade

import (
	"context"

	"github.com/erp/stockdesk/internal/domain/trade"
)

// TransactionScope runs a unit of work against trade repositories that share
// one database transaction. Conversions save the source and the new document
// through it so a failure leaves neither half behind.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the trade repositories bound to the
// current transaction
type TransactionalRepositories interface {
	QuotationRepo() trade.QuotationRepository
	SalesOrderRepo() trade.SalesOrderRepository
	InvoiceRepo() trade.InvoiceRepository
}

// NoOpTransactionScope runs fn directly against the given repositories
type NoOpTransactionScope struct {
	quotations trade.QuotationRepository
	orders     trade.SalesOrderRepository
	invoices   trade.InvoiceRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(
	quotations trade.QuotationRepository,
	orders trade.SalesOrderRepository,
	invoices trade.InvoiceRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{quotations: quotations, orders: orders, invoices: invoices}
}

// Execute calls fn without a transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// QuotationRepo returns the quotation repository
func (s *NoOpTransactionScope) QuotationRepo() trade.QuotationRepository { return s.quotations }

// SalesOrderRepo returns the sales order repository
func (s *NoOpTransactionScope) SalesOrderRepo() trade.SalesOrderRepository { return s.orders }

// InvoiceRepo returns the invoice repository
func (s *NoOpTransactionScope) InvoiceRepo() trade.InvoiceRepository { return s.invoices }

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
