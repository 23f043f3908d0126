package dto

import (
	"net/http"
	"strings"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeProductNotFound is used when a referenced product does not exist
	ErrCodeProductNotFound = "ERR_PRODUCT_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	// ErrCodeAlreadyConverted is used when a document was already converted
	ErrCodeAlreadyConverted = "ERR_ALREADY_CONVERTED"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeInvalidAdjustment is used for a rejected stock adjustment
	ErrCodeInvalidAdjustment = "ERR_INVALID_ADJUSTMENT"
	// ErrCodeInvalidOperation is used for a malformed bulk operation
	ErrCodeInvalidOperation = "ERR_INVALID_OPERATION"
	// ErrCodeInvalidPriceMode is used for an unknown bulk price mode
	ErrCodeInvalidPriceMode = "ERR_INVALID_PRICE_MODE"
	// ErrCodeInvalidDiscount is used for a rejected document discount
	ErrCodeInvalidDiscount = "ERR_INVALID_DISCOUNT"
	// ErrCodeInvalidTaxRate is used for a tax rate outside 0..100
	ErrCodeInvalidTaxRate = "ERR_INVALID_TAX_RATE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation: http.StatusBadRequest,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeProductNotFound:     http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeAlreadyConverted:    http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeBusinessRule: http.StatusUnprocessableEntity,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:        http.StatusBadRequest,
	ErrCodeInvalidInput:      http.StatusBadRequest,
	ErrCodeInvalidJSON:       http.StatusBadRequest,
	ErrCodeInvalidAdjustment: http.StatusBadRequest,
	ErrCodeInvalidOperation:  http.StatusBadRequest,
	ErrCodeInvalidPriceMode:  http.StatusBadRequest,
	ErrCodeInvalidDiscount:   http.StatusBadRequest,
	ErrCodeInvalidTaxRate:    http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the API codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"PRODUCT_NOT_FOUND":    ErrCodeProductNotFound,
	"ITEM_NOT_FOUND":       ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"ALREADY_CONVERTED":    ErrCodeAlreadyConverted,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"INVALID_STATE":        ErrCodeInvalidState,
	"NO_ITEMS":             ErrCodeBusinessRule,
	"NUMBER_EXHAUSTED":     ErrCodeInternal,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_ADJUSTMENT":   ErrCodeInvalidAdjustment,
	"INVALID_OPERATION":    ErrCodeInvalidOperation,
	"INVALID_PRICE_MODE":   ErrCodeInvalidPriceMode,
	"INVALID_DISCOUNT":     ErrCodeInvalidDiscount,
	"INVALID_TAX_RATE":     ErrCodeInvalidTaxRate,
	"VALIDATION_ERROR":     ErrCodeValidation,
	"BAD_REQUEST":          ErrCodeBadRequest,
	"INTERNAL_ERROR":       ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the standardized format.
// Field-level INVALID_* codes (INVALID_SKU, INVALID_PRICE, ...) become
// ERR_INVALID_INPUT; anything else unknown passes through unchanged.
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	if strings.HasPrefix(code, "INVALID_") {
		return ErrCodeInvalidInput
	}
	return code
}

// StatusForCode normalizes code and resolves its HTTP status. Domain codes
// that have no mapping are business rule violations.
func StatusForCode(code string) (string, int) {
	normalized := NormalizeErrorCode(code)
	if status, ok := ErrorCodeHTTPStatus[normalized]; ok {
		return normalized, status
	}
	return normalized, http.StatusUnprocessableEntity
}
