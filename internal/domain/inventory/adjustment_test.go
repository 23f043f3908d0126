package inventory

import (
	"errors"
	"math"
	"testing"

	"github.com/erp/stockdesk/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyAdjustment(t *testing.T) {
	tests := []struct {
		name    string
		current int64
		adj     Adjustment
		want    int64
		delta   int64
	}{
		{"set", 5, Adjustment{Mode: AdjustmentSet, Value: 12}, 12, 7},
		{"set to zero", 5, Adjustment{Mode: AdjustmentSet, Value: 0}, 0, -5},
		{"increase", 5, Adjustment{Mode: AdjustmentIncrease, Value: 3}, 8, 3},
		{"decrease", 5, Adjustment{Mode: AdjustmentDecrease, Value: 3}, 2, -3},
		{"decrease clamps at zero", 3, Adjustment{Mode: AdjustmentDecrease, Value: 10}, 0, -3},
		{"zero increase", 4, Adjustment{Mode: AdjustmentIncrease, Value: 0}, 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, movement, err := ApplyAdjustment(tt.current, tt.adj, " counted ")
			require.NoError(t, err)
			assert.Equal(t, tt.want, next)
			assert.Equal(t, tt.current, movement.OldQuantity)
			assert.Equal(t, tt.want, movement.NewQuantity)
			assert.Equal(t, tt.delta, movement.Delta)
			assert.Equal(t, tt.adj.Value, movement.RequestedValue)
			assert.Equal(t, tt.adj.Mode, movement.Mode)
			assert.Equal(t, "counted", movement.Reason)
			assert.NotEqual(t, uuid.Nil, movement.ID)
		})
	}
}

func TestApplyAdjustment_ClampReportsActualDelta(t *testing.T) {
	_, movement, err := ApplyAdjustment(3, Adjustment{Mode: AdjustmentDecrease, Value: 10}, "")
	require.NoError(t, err)
	assert.Equal(t, int64(-3), movement.Delta)
	assert.Equal(t, int64(10), movement.RequestedValue)
	assert.True(t, movement.Clamped())
}

func TestApplyAdjustment_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		current int64
		adj     Adjustment
	}{
		{"negative increase", 5, Adjustment{Mode: AdjustmentIncrease, Value: -1}},
		{"negative decrease", 5, Adjustment{Mode: AdjustmentDecrease, Value: -4}},
		{"negative set", 5, Adjustment{Mode: AdjustmentSet, Value: -2}},
		{"unknown mode", 5, Adjustment{Mode: "multiply", Value: 2}},
		{"negative current", -1, Adjustment{Mode: AdjustmentIncrease, Value: 2}},
		{"increase past int64", 5, Adjustment{Mode: AdjustmentIncrease, Value: math.MaxInt64}},
		{"increase one past int64", math.MaxInt64, Adjustment{Mode: AdjustmentIncrease, Value: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, _, err := ApplyAdjustment(tt.current, tt.adj, "")
			require.Error(t, err)
			assert.True(t, errors.Is(err, shared.ErrInvalidAdjustment))
			assert.Equal(t, tt.current, next)
		})
	}
}

func TestApplyAdjustment_IncreaseUpToMaximum(t *testing.T) {
	next, movement, err := ApplyAdjustment(5, Adjustment{Mode: AdjustmentIncrease, Value: math.MaxInt64 - 5}, "")
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), next)
	assert.Equal(t, int64(math.MaxInt64-5), movement.Delta)
}

func TestApplyAdjustment_SetIsIdempotent(t *testing.T) {
	for _, start := range []int64{0, 1, 7, 1000} {
		for _, v := range []int64{0, 3, 50} {
			adj := Adjustment{Mode: AdjustmentSet, Value: v}
			once, _, err := ApplyAdjustment(start, adj, "")
			require.NoError(t, err)
			twice, second, err := ApplyAdjustment(once, adj, "")
			require.NoError(t, err)
			assert.Equal(t, once, twice)
			assert.Equal(t, int64(0), second.Delta)
		}
	}
}
