package bulk

import (
	"github.com/erp/stockdesk/internal/domain/shared"
	"github.com/google/uuid"
)

// ItemError describes why one product could not be processed
type ItemError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ItemResult is the outcome for one product, in request order
type ItemResult struct {
	ProductID uuid.UUID  `json:"product_id"`
	Success   bool       `json:"success"`
	NewValue  any        `json:"new_value,omitempty"`
	Error     *ItemError `json:"error,omitempty"`
}

// ExportFile is the file produced by an Export operation. Location is set
// once the file has been stored by an export sink.
type ExportFile struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Rows        int    `json:"rows"`
	Content     []byte `json:"-"`
	Location    string `json:"location,omitempty"`
}

// Result is the per-item outcome of a bulk operation. A failed item never
// aborts the rest of the batch.
type Result struct {
	Operation Kind         `json:"operation"`
	Items     []ItemResult `json:"items"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Export    *ExportFile  `json:"export,omitempty"`

	events []shared.DomainEvent
}

func newResult(kind Kind, capacity int) *Result {
	return &Result{
		Operation: kind,
		Items:     make([]ItemResult, 0, capacity),
	}
}

func (r *Result) succeed(id uuid.UUID, newValue any) {
	r.Items = append(r.Items, ItemResult{ProductID: id, Success: true, NewValue: newValue})
	r.Succeeded++
}

func (r *Result) fail(id uuid.UUID, code, message string) {
	r.Items = append(r.Items, ItemResult{
		ProductID: id,
		Error:     &ItemError{Code: code, Message: message},
	})
	r.Failed++
}

// Events returns the domain events raised by the items that succeeded.
func (r *Result) Events() []shared.DomainEvent {
	return r.events
}

// AllSucceeded reports whether every item succeeded
func (r *Result) AllSucceeded() bool {
	return r.Failed == 0
}
