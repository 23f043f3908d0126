package inventory

import (
	"fmt"
	"sort"

	"github.com/erp/stockdesk/internal/domain/catalog"
	"github.com/google/uuid"
)

// StockStatus is the display status of a product's stock.
type StockStatus string

const (
	StockStatusInactive   StockStatus = "inactive"
	StockStatusOutOfStock StockStatus = "out_of_stock"
	StockStatusLowStock   StockStatus = "low_stock"
	StockStatusNormal     StockStatus = "normal"
)

// AlertSeverity ranks how urgently a low-stock condition needs action.
type AlertSeverity string

const (
	SeverityCritical AlertSeverity = "critical"
	SeverityHigh     AlertSeverity = "high"
	SeverityMedium   AlertSeverity = "medium"
	// SeverityLow is part of the alert vocabulary but never produced by
	// ClassifyStock.
	SeverityLow      AlertSeverity = "low"
)

// Rank orders severities so that critical sorts first.
func (s AlertSeverity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	}
	return 4
}

// IsValid returns true if the severity is one of the known values
func (s AlertSeverity) IsValid() bool {
	return s.Rank() < 4
}

// StockClassification is the result of ClassifyStock. Severity is empty when
// no alert should be raised.
type StockClassification struct {
	Status   StockStatus   `json:"status"`
	Severity AlertSeverity `json:"severity,omitempty"`
}

// HasAlert reports whether the classification warrants an alert.
func (c StockClassification) HasAlert() bool {
	return c.Severity != ""
}

// ClassifyStock derives the stock status and alert severity for a product.
// A quantity of exactly half the minimum level is classified high. The half
// test is written as quantity <= minLevel/2 so large quantities cannot
// overflow.
func ClassifyStock(quantity, minLevel int64, isActive bool) StockClassification {
	switch {
	case !isActive:
		return StockClassification{Status: StockStatusInactive}
	case quantity == 0:
		return StockClassification{Status: StockStatusOutOfStock, Severity: SeverityCritical}
	case quantity <= minLevel/2:
		return StockClassification{Status: StockStatusLowStock, Severity: SeverityHigh}
	case quantity <= minLevel:
		return StockClassification{Status: StockStatusLowStock, Severity: SeverityMedium}
	default:
		return StockClassification{Status: StockStatusNormal}
	}
}

// ClassifyProduct classifies a catalog product.
func ClassifyProduct(p *catalog.Product) StockClassification {
	return ClassifyStock(p.StockQuantity, p.MinStockLevel, p.IsActive())
}

// StockAlert is a derived, unpersisted low-stock notice for one product.
type StockAlert struct {
	ProductID       uuid.UUID     `json:"product_id"`
	ProductName     string        `json:"product_name"`
	SKU             string        `json:"sku"`
	Severity        AlertSeverity `json:"severity"`
	Message         string        `json:"message"`
	CurrentQuantity int64         `json:"current_quantity"`
	MinLevel        int64         `json:"min_level"`
}

// NewStockAlert builds the alert for a product, or returns false when the
// product's stock does not warrant one.
func NewStockAlert(p *catalog.Product) (StockAlert, bool) {
	c := ClassifyProduct(p)
	if !c.HasAlert() {
		return StockAlert{}, false
	}
	return StockAlert{
		ProductID:       p.ID,
		ProductName:     p.Name,
		SKU:             p.SKU,
		Severity:        c.Severity,
		Message:         alertMessage(p.Name, p.StockQuantity, p.MinStockLevel, c.Severity),
		CurrentQuantity: p.StockQuantity,
		MinLevel:        p.MinStockLevel,
	}, true
}

func alertMessage(name string, quantity, minLevel int64, severity AlertSeverity) string {
	switch severity {
	case SeverityCritical:
		return fmt.Sprintf("%s is out of stock", name)
	case SeverityHigh:
		return fmt.Sprintf("%s is critically low (%d remaining)", name, quantity)
	default:
		return fmt.Sprintf("%s is below minimum stock level (%d/%d)", name, quantity, minLevel)
	}
}

// BuildStockAlerts returns the alerts for all products, most severe first.
// Products keep their input order within a severity.
func BuildStockAlerts(products []catalog.Product) []StockAlert {
	alerts := make([]StockAlert, 0)
	for i := range products {
		if alert, ok := NewStockAlert(&products[i]); ok {
			alerts = append(alerts, alert)
		}
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Severity.Rank() < alerts[j].Severity.Rank()
	})
	return alerts
}
