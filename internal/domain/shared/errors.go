package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same code, so a specific message built
// with NewDomainError still matches the sentinel of the same family.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes shared by the inventory, bulk and trade packages.
const (
	CodeNotFound            = "NOT_FOUND"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeInvalidState        = "INVALID_STATE"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	CodeInvalidAdjustment   = "INVALID_ADJUSTMENT"
	CodeProductNotFound     = "PRODUCT_NOT_FOUND"
	CodeInvalidDiscount     = "INVALID_DISCOUNT"
	CodeInvalidTaxRate      = "INVALID_TAX_RATE"
	CodeInvalidOperation    = "INVALID_OPERATION"
	CodeInvalidPriceMode    = "INVALID_PRICE_MODE"
	CodeAlreadyConverted    = "ALREADY_CONVERTED"
)

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
	ErrInvalidState        = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrInvalidAdjustment   = NewDomainError(CodeInvalidAdjustment, "Invalid stock adjustment")
	ErrProductNotFound     = NewDomainError(CodeProductNotFound, "Product not found")
	ErrInvalidDiscount     = NewDomainError(CodeInvalidDiscount, "Invalid discount")
	ErrInvalidTaxRate      = NewDomainError(CodeInvalidTaxRate, "Tax rate must be between 0 and 100")
	ErrInvalidOperation    = NewDomainError(CodeInvalidOperation, "Invalid bulk operation")
	ErrInvalidPriceMode    = NewDomainError(CodeInvalidPriceMode, "Invalid price update mode")
	ErrAlreadyConverted    = NewDomainError(CodeAlreadyConverted, "Document has already been converted")
)

// CodeOf extracts the domain error code from err, or "" when err is not a
// DomainError.
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
