package inventory

import (
	"testing"

	"github.com/erp/stockdesk/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func createTestProduct(t *testing.T, name string, qty, minLevel int64) catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(name, "SKU-"+name, "General", decimal.NewFromInt(10))
	require.NoError(t, err)
	require.NoError(t, p.SetStockQuantity(qty))
	require.NoError(t, p.SetMinStockLevel(minLevel))
	p.ClearDomainEvents()
	return *p
}
