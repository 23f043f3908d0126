package trade

import (
	"errors"
	"testing"

	"github.com/erp/stockdesk/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mustItem(t *testing.T, qty, price string) LineItem {
	t.Helper()
	item, err := NewLineItem(nil, "Item", dec(qty), dec(price))
	require.NoError(t, err)
	return item
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "%s: want %s got %s", field, want, got)
}

func TestCalculateTotals_RoundTrip(t *testing.T) {
	items := []LineItem{mustItem(t, "2", "10")}
	totals, err := CalculateTotals(items, dec("10"), Discount{Type: DiscountPercentage, Value: dec("50")})
	require.NoError(t, err)

	assertDecimal(t, "20", totals.Subtotal, "subtotal")
	assertDecimal(t, "10", totals.DiscountAmount, "discount")
	assertDecimal(t, "10", totals.TaxableBase, "taxable base")
	assertDecimal(t, "1", totals.Tax, "tax")
	assertDecimal(t, "11", totals.Total, "total")
}

func TestCalculateTotals_FixedDiscountClampsAtZero(t *testing.T) {
	items := []LineItem{mustItem(t, "2", "10")}
	totals, err := CalculateTotals(items, dec("10"), Discount{Type: DiscountFixed, Value: dec("1000")})
	require.NoError(t, err)

	assertDecimal(t, "20", totals.Subtotal, "subtotal")
	assertDecimal(t, "1000", totals.DiscountAmount, "discount")
	assertDecimal(t, "0", totals.TaxableBase, "taxable base")
	assertDecimal(t, "0", totals.Tax, "tax")
	assertDecimal(t, "0", totals.Total, "total")
}

func TestCalculateTotals(t *testing.T) {
	tests := []struct {
		name     string
		items    []LineItem
		taxRate  string
		discount Discount
		total    string
	}{
		{"empty document", nil, "10", NoDiscount(), "0"},
		{"no tax no discount", []LineItem{mustItem(t, "3", "1.5"), mustItem(t, "1", "2")}, "0", NoDiscount(), "6.5"},
		{"fractional tax", []LineItem{mustItem(t, "1", "9.99")}, "7.5", NoDiscount(), "10.73925"},
		{"fixed discount", []LineItem{mustItem(t, "4", "25")}, "20", Discount{Type: DiscountFixed, Value: dec("10")}, "108"},
		{"full percentage", []LineItem{mustItem(t, "1", "50")}, "10", Discount{Type: DiscountPercentage, Value: dec("100")}, "0"},
		{"zero quantity line", []LineItem{mustItem(t, "0", "50")}, "10", NoDiscount(), "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals, err := CalculateTotals(tt.items, dec(tt.taxRate), tt.discount)
			require.NoError(t, err)
			assertDecimal(t, tt.total, totals.Total, "total")
		})
	}
}

func TestCalculateTotals_Errors(t *testing.T) {
	items := []LineItem{mustItem(t, "1", "10")}

	_, err := CalculateTotals(items, dec("10"), Discount{Type: DiscountFixed, Value: dec("-1")})
	assert.True(t, errors.Is(err, shared.ErrInvalidDiscount))

	_, err = CalculateTotals(items, dec("10"), Discount{Type: "bogo", Value: dec("1")})
	assert.True(t, errors.Is(err, shared.ErrInvalidDiscount))

	_, err = CalculateTotals(items, dec("-1"), NoDiscount())
	assert.True(t, errors.Is(err, shared.ErrInvalidTaxRate))

	_, err = CalculateTotals(items, dec("100.5"), NoDiscount())
	assert.True(t, errors.Is(err, shared.ErrInvalidTaxRate))
}

func TestNewLineItem(t *testing.T) {
	productID := uuid.New()
	item, err := NewLineItem(&productID, " Widget ", dec("3"), dec("4"))
	require.NoError(t, err)
	assert.Equal(t, "Widget", item.Description)
	require.NotNil(t, item.ProductID)
	assert.Equal(t, productID, *item.ProductID)
	assertDecimal(t, "12", item.LineTotal(), "line total")

	require.NoError(t, item.SetQuantity(dec("5")))
	assertDecimal(t, "20", item.LineTotal(), "line total after quantity change")
	require.NoError(t, item.SetUnitPrice(dec("1")))
	assertDecimal(t, "5", item.LineTotal(), "line total after price change")

	_, err = NewLineItem(nil, "X", dec("-1"), dec("1"))
	assert.Error(t, err)
	_, err = NewLineItem(nil, "X", dec("1"), dec("-1"))
	assert.Error(t, err)
	_, err = NewLineItem(nil, "", dec("1"), dec("1"))
	assert.Error(t, err)
}
