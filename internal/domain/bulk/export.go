package bulk

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/erp/stockdesk/internal/domain/catalog"
	"github.com/erp/stockdesk/internal/domain/inventory"
)

// ExportColumns is the header row of a product export.
var ExportColumns = []string{
	"id", "sku", "name", "category", "price", "cost",
	"stock_quantity", "min_stock_level", "is_active", "stock_status",
}

// BuildProductsCSV renders products as a CSV export file.
func BuildProductsCSV(products []*catalog.Product, generatedAt time.Time) (*ExportFile, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(ExportColumns); err != nil {
		return nil, fmt.Errorf("write export header: %w", err)
	}
	for _, p := range products {
		cost := ""
		if p.Cost != nil {
			cost = p.Cost.String()
		}
		row := []string{
			p.ID.String(),
			p.SKU,
			p.Name,
			p.Category,
			p.Price.String(),
			cost,
			strconv.FormatInt(p.StockQuantity, 10),
			strconv.FormatInt(p.MinStockLevel, 10),
			strconv.FormatBool(p.IsActive()),
			string(inventory.ClassifyProduct(p).Status),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write export row %s: %w", p.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush export: %w", err)
	}

	return &ExportFile{
		FileName:    fmt.Sprintf("products-%s.csv", generatedAt.UTC().Format("20060102-150405")),
		ContentType: "text/csv",
		Rows:        len(products),
		Content:     buf.Bytes(),
	}, nil
}
