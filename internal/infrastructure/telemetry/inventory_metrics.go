package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/metric"

	"github.com/erp/stockdesk/internal/domain/bulk"
	"github.com/erp/stockdesk/internal/domain/inventory"
	"github.com/erp/stockdesk/internal/domain/trade"
)

// ErrMeterNil is returned when no meter is supplied.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// InventoryMetrics records stock adjustments, bulk outcomes, open alerts and
// trade document activity.
type InventoryMetrics struct {
	adjustments      *Counter
	bulkItems        *Counter
	openAlerts       *Gauge
	documentsCreated *Counter
}

// NewInventoryMetrics registers the instruments on meter.
func NewInventoryMetrics(meter metric.Meter) (*InventoryMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	var (
		m   InventoryMetrics
		err error
	)
	if m.adjustments, err = NewCounter(meter,
		"stockdesk_stock_adjustments_total",
		"Stock adjustments applied, by mode and source",
		"{adjustments}",
	); err != nil {
		return nil, err
	}
	if m.bulkItems, err = NewCounter(meter,
		"stockdesk_bulk_items_total",
		"Bulk operation items processed, by operation and outcome",
		"{items}",
	); err != nil {
		return nil, err
	}
	if m.openAlerts, err = NewGauge(meter,
		"stockdesk_open_stock_alerts",
		"Products currently raising a stock alert, by severity",
		"{products}",
	); err != nil {
		return nil, err
	}
	if m.documentsCreated, err = NewCounter(meter,
		"stockdesk_trade_documents_created_total",
		"Quotations, orders and invoices created",
		"{documents}",
	); err != nil {
		return nil, err
	}
	return &m, nil
}

// RecordAdjustment counts one applied movement.
func (m *InventoryMetrics) RecordAdjustment(ctx context.Context, mv inventory.StockMovement) {
	m.adjustments.Inc(ctx,
		AttrAdjustmentMode.String(string(mv.Mode)),
		AttrSource.String(mv.Source),
		AttrClamped.Bool(mv.Clamped()),
	)
}

// RecordBulkResult counts the successes and failures of one bulk run.
func (m *InventoryMetrics) RecordBulkResult(ctx context.Context, result *bulk.Result) {
	op := AttrOperation.String(string(result.Operation))
	if result.Succeeded > 0 {
		m.bulkItems.Add(ctx, int64(result.Succeeded), op, AttrOutcome.String("succeeded"))
	}
	if result.Failed > 0 {
		m.bulkItems.Add(ctx, int64(result.Failed), op, AttrOutcome.String("failed"))
	}
}

// RecordOpenAlerts sets the alert gauge for every severity, including zeros.
func (m *InventoryMetrics) RecordOpenAlerts(ctx context.Context, alerts []inventory.StockAlert) {
	counts := map[inventory.AlertSeverity]int64{
		inventory.SeverityCritical: 0,
		inventory.SeverityHigh:     0,
		inventory.SeverityMedium:   0,
		inventory.SeverityLow:      0,
	}
	for _, a := range alerts {
		counts[a.Severity]++
	}
	for severity, n := range counts {
		m.openAlerts.Record(ctx, n, AttrSeverity.String(string(severity)))
	}
}

// RecordDocumentCreated counts a new trade document.
func (m *InventoryMetrics) RecordDocumentCreated(ctx context.Context, docType trade.DocumentType) {
	m.documentsCreated.Inc(ctx, AttrDocumentType.String(string(docType)))
}
