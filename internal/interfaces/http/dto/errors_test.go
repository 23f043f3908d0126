package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeUnknown, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeProductNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeAlreadyConverted, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeBusinessRule, http.StatusUnprocessableEntity},
		{ErrCodeInvalidAdjustment, http.StatusBadRequest},
		{ErrCodeInvalidOperation, http.StatusBadRequest},
		{ErrCodeInvalidTaxRate, http.StatusBadRequest},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"PRODUCT_NOT_FOUND", ErrCodeProductNotFound},
		{"ALREADY_EXISTS", ErrCodeAlreadyExists},
		{"INVALID_ADJUSTMENT", ErrCodeInvalidAdjustment},
		{"INVALID_PRICE_MODE", ErrCodeInvalidPriceMode},
		{"CONCURRENCY_CONFLICT", ErrCodeConcurrencyConflict},
		// Field-level input codes collapse to invalid input
		{"INVALID_SKU", ErrCodeInvalidInput},
		{"INVALID_QUANTITY", ErrCodeInvalidInput},
		// New codes should pass through unchanged
		{ErrCodeNotFound, ErrCodeNotFound},
		// Unknown codes should pass through unchanged
		{"CUSTOM_ERROR", "CUSTOM_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestStatusForCode(t *testing.T) {
	code, status := StatusForCode("INVALID_STATE")
	assert.Equal(t, ErrCodeInvalidState, code)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	code, status = StatusForCode("INVALID_PRICE")
	assert.Equal(t, ErrCodeInvalidInput, code)
	assert.Equal(t, http.StatusBadRequest, status)

	code, status = StatusForCode("NO_ITEMS")
	assert.Equal(t, ErrCodeBusinessRule, code)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	// Unmapped business codes are treated as rule violations, not 500s
	code, status = StatusForCode("ALREADY_PAID")
	assert.Equal(t, "ALREADY_PAID", code)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestErrorCodeConstants(t *testing.T) {
	for code := range ErrorCodeHTTPStatus {
		assert.Contains(t, code, "ERR_", "code %s should use the ERR_ prefix", code)
	}
	for _, code := range DomainErrorCodeMapping {
		_, ok := ErrorCodeHTTPStatus[code]
		assert.True(t, ok, "mapped code %s has no HTTP status", code)
	}
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	t.Run("rounds total pages up", func(t *testing.T) {
		resp := NewSuccessResponseWithMeta([]int{1}, 41, 1, 20)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, 3, resp.Meta.TotalPages)
	})

	t.Run("zero page size yields zero pages", func(t *testing.T) {
		resp := NewSuccessResponseWithMeta(nil, 10, 1, 0)
		assert.Equal(t, 0, resp.Meta.TotalPages)
	})
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Product not found", "req-123")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "req-123", resp.Error.RequestID)

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":{"code":"ERR_NOT_FOUND","message":"Product not found","request_id":"req-123"}}`, string(body))
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "sku", Message: "This field is required"},
		{Field: "price", Message: "Must be at least 0"},
	}
	resp := NewValidationErrorResponse("Request validation failed", "req-1", details)

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "sku", resp.Error.Details[0].Field)
}
