package valueobject

import (
	"errors"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ErrPercentOutOfRange is returned when a bounded percentage falls outside 0..100.
var ErrPercentOutOfRange = errors.New("percentage must be between 0 and 100")

// Percent is an immutable percentage expressed on a 0..100 scale.
type Percent struct {
	value decimal.Decimal
}

// NewPercent creates a percentage bounded to 0..100 inclusive.
func NewPercent(value decimal.Decimal) (Percent, error) {
	if value.IsNegative() || value.GreaterThan(hundred) {
		return Percent{}, ErrPercentOutOfRange
	}
	return Percent{value: value}, nil
}

// NewUnboundedPercent creates a percentage with no upper bound, used for
// markups where 150% is legitimate. Negative values are still rejected.
func NewUnboundedPercent(value decimal.Decimal) (Percent, error) {
	if value.IsNegative() {
		return Percent{}, errors.New("percentage cannot be negative")
	}
	return Percent{value: value}, nil
}

// ZeroPercent returns 0%.
func ZeroPercent() Percent {
	return Percent{value: decimal.Zero}
}

// Value returns the percentage on the 0..100 scale.
func (p Percent) Value() decimal.Decimal {
	return p.value
}

// Ratio returns the percentage as a fraction (15% -> 0.15).
func (p Percent) Ratio() decimal.Decimal {
	return p.value.Div(hundred)
}

// Of returns the percentage applied to amount.
func (p Percent) Of(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(p.value).Div(hundred)
}

// IsZero reports whether the percentage is 0.
func (p Percent) IsZero() bool {
	return p.value.IsZero()
}

// Share returns part/whole × 100 rounded to places decimals, or zero when
// whole is zero.
func Share(part, whole decimal.Decimal, places int32) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(whole).Round(places)
}
