package trade

import (
	"github.com/erp/stockdesk/internal/domain/trade"
)

// PreviewTotals prices the request lines and computes document totals without
// persisting anything. Invalid lines, tax rates and discounts fail with the
// same codes as stored documents.
func PreviewTotals(req TotalsPreviewRequest) (*TotalsPreviewResponse, error) {
	items := make([]trade.LineItem, 0, len(req.Items))
	for _, in := range req.Items {
		item, err := trade.NewLineItem(in.ProductID, in.Description, in.Quantity, in.UnitPrice)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	totals, err := trade.CalculateTotals(items, req.TaxRate, req.Discount.Discount())
	if err != nil {
		return nil, err
	}
	return &TotalsPreviewResponse{
		Items:  toLineItemResponses(items),
		Totals: totals,
	}, nil
}
