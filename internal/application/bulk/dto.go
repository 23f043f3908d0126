package bulk

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/stockdesk/internal/domain/bulk"
)

// BulkRequest is the tagged-union body of a bulk operation. Params is decoded
// according to Operation.
type BulkRequest struct {
	Operation  string          `json:"operation" validate:"required,oneof=update_price update_category update_stock export delete"`
	ProductIDs []uuid.UUID     `json:"product_ids" validate:"required,min=1"`
	Params     json.RawMessage `json:"params"`
}

// PriceParams are the parameters of update_price
type PriceParams struct {
	Mode  string          `json:"mode" validate:"required"`
	Value decimal.Decimal `json:"value"`
}

// CategoryParams are the parameters of update_category
type CategoryParams struct {
	Category string `json:"category" validate:"required,max=100"`
}

// StockParams are the parameters of update_stock
type StockParams struct {
	Mode   string `json:"mode" validate:"required"`
	Value  int64  `json:"value"`
	Reason string `json:"reason" validate:"max=500"`
}

// DeleteParams are the parameters of delete
type DeleteParams struct {
	Confirmed bool `json:"confirmed"`
	Permanent bool `json:"permanent"`
}

// BulkResponse reports the per-item outcome. Export is set for export
// operations; Content carries the CSV inline when no export store is
// configured.
type BulkResponse struct {
	*bulk.Result
	Content string `json:"content,omitempty"`
}
