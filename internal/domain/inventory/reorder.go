package inventory

import (
	"math"

	"github.com/erp/stockdesk/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MinimumReorderBuffer is added to the minimum level when that exceeds
// doubling it, so that a zero threshold still yields a useful order.
const MinimumReorderBuffer int64 = 10

// ReorderPriority tags how soon a reorder should be placed.
type ReorderPriority string

const (
	ReorderPriorityCritical ReorderPriority = "critical"
	ReorderPriorityHigh     ReorderPriority = "high"
)

// ReorderSuggestion is a derived purchase recommendation for one product.
type ReorderSuggestion struct {
	ProductID         uuid.UUID       `json:"product_id"`
	ProductName       string          `json:"product_name"`
	SKU               string          `json:"sku"`
	CurrentQuantity   int64           `json:"current_quantity"`
	MinLevel          int64           `json:"min_level"`
	SuggestedQuantity int64           `json:"suggested_quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	ReorderCost       decimal.Decimal `json:"reorder_cost"`
	Priority          ReorderPriority `json:"priority"`
}

// SuggestedReorderQuantity returns max(minLevel×2, minLevel+10), capped at
// math.MaxInt64.
func SuggestedReorderQuantity(minLevel int64) int64 {
	if minLevel > math.MaxInt64/2 {
		return math.MaxInt64
	}
	doubled := minLevel * 2
	buffered := minLevel + MinimumReorderBuffer
	if doubled > buffered {
		return doubled
	}
	return buffered
}

// SuggestReorder computes the reorder recommendation for a product. The unit
// cost is the product cost when known, else its price.
func SuggestReorder(p *catalog.Product) ReorderSuggestion {
	qty := SuggestedReorderQuantity(p.MinStockLevel)
	unitCost := p.UnitCost()

	priority := ReorderPriorityHigh
	if p.StockQuantity == 0 {
		priority = ReorderPriorityCritical
	}

	return ReorderSuggestion{
		ProductID:         p.ID,
		ProductName:       p.Name,
		SKU:               p.SKU,
		CurrentQuantity:   p.StockQuantity,
		MinLevel:          p.MinStockLevel,
		SuggestedQuantity: qty,
		UnitCost:          unitCost,
		ReorderCost:       unitCost.Mul(decimal.NewFromInt(qty)),
		Priority:          priority,
	}
}

// NeedsReorder reports whether an active product is at or below its minimum.
func NeedsReorder(p *catalog.Product) bool {
	return p.IsActive() && p.StockQuantity <= p.MinStockLevel
}

// BuildReorderSuggestions returns suggestions for every product that needs
// reordering, critical first, preserving input order within a priority.
func BuildReorderSuggestions(products []catalog.Product) []ReorderSuggestion {
	critical := make([]ReorderSuggestion, 0)
	high := make([]ReorderSuggestion, 0)
	for i := range products {
		if !NeedsReorder(&products[i]) {
			continue
		}
		s := SuggestReorder(&products[i])
		if s.Priority == ReorderPriorityCritical {
			critical = append(critical, s)
		} else {
			high = append(high, s)
		}
	}
	return append(critical, high...)
}

// TotalReorderCost sums the cost of a set of suggestions.
func TotalReorderCost(suggestions []ReorderSuggestion) decimal.Decimal {
	total := decimal.Zero
	for _, s := range suggestions {
		total = total.Add(s.ReorderCost)
	}
	return total
}
