package trade

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/erp/stockdesk/internal/domain/shared"
	"github.com/erp/stockdesk/internal/domain/trade"
)

const maxNumberAttempts = 5

var numberPrefixes = map[trade.DocumentType]string{
	trade.DocumentQuotation:  "QT",
	trade.DocumentSalesOrder: "SO",
	trade.DocumentInvoice:    "INV",
}

// numberExists reports whether a document number is taken
type numberExists func(ctx context.Context, number string) (bool, error)

// DocumentNumberer issues numbers of the form PREFIX-YYYYMMDD-XXXXXX
type DocumentNumberer struct {
	now    func() time.Time
	suffix func() string
}

// NewDocumentNumberer creates a numberer using the wall clock and random
// suffixes
func NewDocumentNumberer() *DocumentNumberer {
	return &DocumentNumberer{
		now:    time.Now,
		suffix: randomSuffix,
	}
}

func randomSuffix() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
}

// Next returns an unused number for docType, retrying on collision
func (n *DocumentNumberer) Next(ctx context.Context, docType trade.DocumentType, exists numberExists) (string, error) {
	prefix, ok := numberPrefixes[docType]
	if !ok {
		return "", fmt.Errorf("no number prefix for document type %q", docType)
	}
	date := n.now().UTC().Format("20060102")

	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		number := fmt.Sprintf("%s-%s-%s", prefix, date, n.suffix())
		taken, err := exists(ctx, number)
		if err != nil {
			return "", err
		}
		if !taken {
			return number, nil
		}
	}
	return "", shared.NewDomainError("NUMBER_EXHAUSTED", "Could not allocate a document number")
}
