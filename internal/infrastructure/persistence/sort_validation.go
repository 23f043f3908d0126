package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes a sort direction to ASC or DESC (the default).
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when it is whitelisted, otherwise
// defaultField. Sort columns are interpolated into SQL, so only whitelisted
// names may pass.
func ValidateSortField(sortField string, allowed map[string]bool, defaultField string) string {
	field := strings.TrimSpace(sortField)
	if field != "" && allowed[field] {
		return field
	}
	return defaultField
}

// orderClause builds a safe ORDER BY expression.
func orderClause(sortField, sortDir string, allowed map[string]bool, defaultField string) string {
	return ValidateSortField(sortField, allowed, defaultField) + " " + ValidateSortOrder(sortDir)
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"created_at":      true,
	"updated_at":      true,
	"name":            true,
	"sku":             true,
	"category":        true,
	"price":           true,
	"stock_quantity":  true,
	"min_stock_level": true,
}

// MovementSortFields contains allowed sort fields for stock movements
var MovementSortFields = map[string]bool{
	"created_at": true,
	"delta":      true,
}

// DocumentSortFields contains allowed sort fields for quotations, orders and invoices
var DocumentSortFields = map[string]bool{
	"created_at":    true,
	"updated_at":    true,
	"number":        true,
	"customer_name": true,
	"status":        true,
	"total_amount":  true,
}
