package inventory

import (
	"math"
	"testing"

	"github.com/erp/stockdesk/internal/domain/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyStock(t *testing.T) {
	tests := []struct {
		name     string
		quantity int64
		minLevel int64
		active   bool
		status   StockStatus
		severity AlertSeverity
	}{
		{"inactive ignores stock", 0, 10, false, StockStatusInactive, ""},
		{"zero is out of stock", 0, 10, true, StockStatusOutOfStock, SeverityCritical},
		{"zero with zero minimum", 0, 0, true, StockStatusOutOfStock, SeverityCritical},
		{"below half", 3, 10, true, StockStatusLowStock, SeverityHigh},
		{"exactly half is high", 5, 10, true, StockStatusLowStock, SeverityHigh},
		{"just above half", 6, 10, true, StockStatusLowStock, SeverityMedium},
		{"at minimum", 10, 10, true, StockStatusLowStock, SeverityMedium},
		{"odd minimum half rounds down", 3, 7, true, StockStatusLowStock, SeverityHigh},
		{"odd minimum above half", 4, 7, true, StockStatusLowStock, SeverityMedium},
		{"above minimum", 11, 10, true, StockStatusNormal, ""},
		{"positive with zero minimum", 1, 0, true, StockStatusNormal, ""},
		{"huge quantity stays normal", 1 << 62, 10, true, StockStatusNormal, ""},
		{"maximum quantity stays normal", math.MaxInt64, math.MaxInt64 - 1, true, StockStatusNormal, ""},
		{"half of maximum minimum is high", math.MaxInt64 / 2, math.MaxInt64, true, StockStatusLowStock, SeverityHigh},
		{"above half of maximum minimum", math.MaxInt64/2 + 1, math.MaxInt64, true, StockStatusLowStock, SeverityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ClassifyStock(tt.quantity, tt.minLevel, tt.active)
			assert.Equal(t, tt.status, c.Status)
			assert.Equal(t, tt.severity, c.Severity)
			assert.Equal(t, tt.severity != "", c.HasAlert())
		})
	}
}

func TestClassifyStock_Exhaustive(t *testing.T) {
	for m := int64(0); m <= 40; m++ {
		for q := int64(0); q <= 60; q++ {
			c := ClassifyStock(q, m, true)
			switch c.Status {
			case StockStatusOutOfStock, StockStatusLowStock, StockStatusNormal:
			default:
				t.Fatalf("unexpected status %q for q=%d m=%d", c.Status, q, m)
			}
			assert.Equal(t, q == 0, c.Status == StockStatusOutOfStock, "q=%d m=%d", q, m)
		}
	}
}

func TestClassifyStock_HalfTieBreak(t *testing.T) {
	for m := int64(2); m <= 200; m += 2 {
		c := ClassifyStock(m/2, m, true)
		require.Equal(t, SeverityHigh, c.Severity, "m=%d", m)
	}
}

func TestNewStockAlert(t *testing.T) {
	t.Run("out of stock message", func(t *testing.T) {
		p := createTestProduct(t, "Bolt", 0, 5)
		alert, ok := NewStockAlert(&p)
		require.True(t, ok)
		assert.Equal(t, SeverityCritical, alert.Severity)
		assert.Equal(t, "Bolt is out of stock", alert.Message)
	})

	t.Run("critically low message", func(t *testing.T) {
		p := createTestProduct(t, "Nut", 2, 10)
		alert, ok := NewStockAlert(&p)
		require.True(t, ok)
		assert.Equal(t, "Nut is critically low (2 remaining)", alert.Message)
		assert.Equal(t, int64(2), alert.CurrentQuantity)
		assert.Equal(t, int64(10), alert.MinLevel)
	})

	t.Run("below minimum message", func(t *testing.T) {
		p := createTestProduct(t, "Washer", 8, 10)
		alert, ok := NewStockAlert(&p)
		require.True(t, ok)
		assert.Equal(t, SeverityMedium, alert.Severity)
		assert.Equal(t, "Washer is below minimum stock level (8/10)", alert.Message)
	})

	t.Run("no alert for normal or inactive", func(t *testing.T) {
		p := createTestProduct(t, "Gear", 50, 10)
		_, ok := NewStockAlert(&p)
		assert.False(t, ok)

		q := createTestProduct(t, "Cog", 0, 10)
		q.Deactivate()
		_, ok = NewStockAlert(&q)
		assert.False(t, ok)
	})
}

func TestBuildStockAlerts_OrdersBySeverity(t *testing.T) {
	products := []catalog.Product{
		createTestProduct(t, "A", 9, 10),
		createTestProduct(t, "B", 0, 10),
		createTestProduct(t, "C", 100, 10),
		createTestProduct(t, "D", 2, 10),
		createTestProduct(t, "E", 0, 3),
		createTestProduct(t, "F", 7, 10),
	}

	alerts := BuildStockAlerts(products)
	require.Len(t, alerts, 5)

	names := make([]string, len(alerts))
	for i, a := range alerts {
		names[i] = a.ProductName
	}
	assert.Equal(t, []string{"B", "E", "D", "A", "F"}, names)
}

func TestBuildStockAlerts_Empty(t *testing.T) {
	alerts := BuildStockAlerts(nil)
	assert.NotNil(t, alerts)
	assert.Empty(t, alerts)
}
