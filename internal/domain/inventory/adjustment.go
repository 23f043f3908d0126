package inventory

import (
	"math"
	"strings"
	"time"

	"github.com/erp/stockdesk/internal/domain/shared"
	"github.com/google/uuid"
)

// AdjustmentMode selects how an adjustment value is applied to stock.
type AdjustmentMode string

const (
	AdjustmentSet      AdjustmentMode = "set"
	AdjustmentIncrease AdjustmentMode = "increase"
	AdjustmentDecrease AdjustmentMode = "decrease"
)

// IsValid returns true if the mode is known
func (m AdjustmentMode) IsValid() bool {
	switch m {
	case AdjustmentSet, AdjustmentIncrease, AdjustmentDecrease:
		return true
	}
	return false
}

// Adjustment is a requested change to a product's on-hand quantity.
type Adjustment struct {
	Mode  AdjustmentMode `json:"mode"`
	Value int64          `json:"value"`
}

// Validate rejects negative values and unknown modes.
func (a Adjustment) Validate() error {
	if !a.Mode.IsValid() {
		return shared.NewDomainError(shared.CodeInvalidAdjustment, "Unknown adjustment mode: "+string(a.Mode))
	}
	if a.Value < 0 {
		return shared.NewDomainError(shared.CodeInvalidAdjustment, "Adjustment value cannot be negative")
	}
	return nil
}

// StockMovement is the audit record of one applied adjustment. Delta is the
// change actually applied, which differs from the requested value when a
// decrease is clamped at zero.
type StockMovement struct {
	ID             uuid.UUID      `json:"id"`
	ProductID      uuid.UUID      `json:"product_id"`
	Mode           AdjustmentMode `json:"mode"`
	RequestedValue int64          `json:"requested_value"`
	OldQuantity    int64          `json:"old_quantity"`
	NewQuantity    int64          `json:"new_quantity"`
	Delta          int64          `json:"delta"`
	Reason         string         `json:"reason"`
	Source         string         `json:"source"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Clamped reports whether a decrease was limited by the zero floor.
func (m StockMovement) Clamped() bool {
	return m.Mode == AdjustmentDecrease && -m.Delta < m.RequestedValue
}

// Movement sources recorded on the audit log.
const (
	MovementSourceManual = "manual"
	MovementSourceBulk   = "bulk"
)

// ApplyAdjustment computes the new quantity for an adjustment. It does not
// touch any product; the returned movement is unattached (zero ProductID) and
// the caller persists both.
func ApplyAdjustment(current int64, adj Adjustment, reason string) (int64, StockMovement, error) {
	if err := adj.Validate(); err != nil {
		return current, StockMovement{}, err
	}
	if current < 0 {
		return current, StockMovement{}, shared.NewDomainError(shared.CodeInvalidAdjustment, "Current quantity cannot be negative")
	}

	var next int64
	switch adj.Mode {
	case AdjustmentSet:
		next = adj.Value
	case AdjustmentIncrease:
		if adj.Value > math.MaxInt64-current {
			return current, StockMovement{}, shared.NewDomainError(shared.CodeInvalidAdjustment, "Adjustment would exceed the maximum stock quantity")
		}
		next = current + adj.Value
	case AdjustmentDecrease:
		next = current - adj.Value
		if next < 0 {
			next = 0
		}
	}

	movement := StockMovement{
		ID:             uuid.New(),
		Mode:           adj.Mode,
		RequestedValue: adj.Value,
		OldQuantity:    current,
		NewQuantity:    next,
		Delta:          next - current,
		Reason:         strings.TrimSpace(reason),
		Source:         MovementSourceManual,
		CreatedAt:      time.Now(),
	}
	return next, movement, nil
}
