package inventory

import (
	"sort"
	"time"

	"github.com/erp/stockdesk/internal/domain/catalog"
	"github.com/erp/stockdesk/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PercentagePlaces is the rounding applied to category percentages.
const PercentagePlaces int32 = 1

// CategoryValuation summarizes one category.
type CategoryValuation struct {
	Category   string          `json:"category"`
	Count      int             `json:"count"`
	Value      decimal.Decimal `json:"value"`
	Percentage decimal.Decimal `json:"percentage"`
}

// StatusBucket counts products sharing a stock status.
type StatusBucket struct {
	Count int             `json:"count"`
	Value decimal.Decimal `json:"value"`
}

// ValuationReport is the aggregate view of a product collection.
// TotalValue includes inactive products; ActiveValue excludes them.
type ValuationReport struct {
	ProductCount int                          `json:"product_count"`
	TotalValue   decimal.Decimal              `json:"total_value"`
	ActiveValue  decimal.Decimal              `json:"active_value"`
	TotalUnits   int64                        `json:"total_units"`
	Categories   []CategoryValuation          `json:"categories"`
	Statuses     map[StockStatus]StatusBucket `json:"statuses"`
	GeneratedAt  time.Time                    `json:"generated_at"`
}

// StatusCount returns the number of products in a status bucket.
func (r *ValuationReport) StatusCount(status StockStatus) int {
	return r.Statuses[status].Count
}

// ValuateInventory folds products into category totals, percentages and
// status buckets. Category percentages are by product count, not value.
func ValuateInventory(products []catalog.Product) ValuationReport {
	report := ValuationReport{
		ProductCount: len(products),
		TotalValue:   decimal.Zero,
		ActiveValue:  decimal.Zero,
		Categories:   make([]CategoryValuation, 0),
		Statuses: map[StockStatus]StatusBucket{
			StockStatusNormal:     {Value: decimal.Zero},
			StockStatusLowStock:   {Value: decimal.Zero},
			StockStatusOutOfStock: {Value: decimal.Zero},
			StockStatusInactive:   {Value: decimal.Zero},
		},
		GeneratedAt: time.Now(),
	}

	byCategory := make(map[string]*CategoryValuation)
	for i := range products {
		p := &products[i]
		value := p.StockValue()

		report.TotalValue = report.TotalValue.Add(value)
		report.TotalUnits += p.StockQuantity
		if p.IsActive() {
			report.ActiveValue = report.ActiveValue.Add(value)
		}

		label := p.CategoryLabel()
		cv, ok := byCategory[label]
		if !ok {
			cv = &CategoryValuation{Category: label, Value: decimal.Zero}
			byCategory[label] = cv
		}
		cv.Count++
		cv.Value = cv.Value.Add(value)

		status := ClassifyProduct(p).Status
		bucket := report.Statuses[status]
		bucket.Count++
		bucket.Value = bucket.Value.Add(value)
		report.Statuses[status] = bucket
	}

	total := decimal.NewFromInt(int64(len(products)))
	for _, cv := range byCategory {
		cv.Percentage = valueobject.Share(decimal.NewFromInt(int64(cv.Count)), total, PercentagePlaces)
		report.Categories = append(report.Categories, *cv)
	}
	sort.Slice(report.Categories, func(i, j int) bool {
		return report.Categories[i].Category < report.Categories[j].Category
	})

	return report
}
