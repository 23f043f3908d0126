package bulk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/erp/stockdesk/internal/domain/bulk"
	"github.com/erp/stockdesk/internal/domain/inventory"
	"github.com/erp/stockdesk/internal/domain/shared"
	"github.com/erp/stockdesk/internal/infrastructure/telemetry"
)

// ExportStore stores an export file and returns where it can be fetched
type ExportStore interface {
	Store(ctx context.Context, file *bulk.ExportFile) (string, error)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// BulkService validates bulk requests, runs them through the coordinator and
// delivers export files
type BulkService struct {
	coordinator    *bulk.Coordinator
	exportStore    ExportStore
	maxItems       int
	eventPublisher shared.EventPublisher
	metrics        *telemetry.InventoryMetrics
	logger         *zap.Logger
}

// NewBulkService creates a BulkService. maxItems <= 0 disables the selection
// limit.
func NewBulkService(coordinator *bulk.Coordinator, maxItems int, logger *zap.Logger) *BulkService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BulkService{
		coordinator: coordinator,
		maxItems:    maxItems,
		logger:      logger,
	}
}

// SetExportStore sends export files to store instead of returning them inline
func (s *BulkService) SetExportStore(store ExportStore) {
	s.exportStore = store
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *BulkService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetInventoryMetrics sets the metrics collector
func (s *BulkService) SetInventoryMetrics(metrics *telemetry.InventoryMetrics) {
	s.metrics = metrics
}

// Execute runs a bulk operation. Request-level problems return an error;
// per-product failures are reported in the response.
func (s *BulkService) Execute(ctx context.Context, req BulkRequest) (*BulkResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	ids := bulk.DedupeIDs(req.ProductIDs)
	if s.maxItems > 0 && len(ids) > s.maxItems {
		return nil, shared.NewDomainError(shared.CodeInvalidOperation,
			fmt.Sprintf("Cannot process more than %d products at once", s.maxItems))
	}

	op, err := ParseOperation(bulk.Kind(req.Operation), req.Params)
	if err != nil {
		return nil, err
	}

	result, err := s.coordinator.Apply(ctx, op, ids)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Bulk operation applied",
		zap.String("operation", string(result.Operation)),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
	)
	if s.metrics != nil {
		s.metrics.RecordBulkResult(ctx, result)
	}
	if events := result.Events(); s.eventPublisher != nil && len(events) > 0 {
		if err := s.eventPublisher.Publish(ctx, events...); err != nil {
			s.logger.Warn("Failed to publish bulk events", zap.Error(err))
		}
	}

	resp := &BulkResponse{Result: result}
	if result.Export != nil {
		if err := s.deliverExport(ctx, resp); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// deliverExport uploads the file when a store is configured, otherwise
// inlines the CSV
func (s *BulkService) deliverExport(ctx context.Context, resp *BulkResponse) error {
	file := resp.Export
	if s.exportStore == nil {
		resp.Content = string(file.Content)
		return nil
	}
	location, err := s.exportStore.Store(ctx, file)
	if err != nil {
		return fmt.Errorf("store export %s: %w", file.FileName, err)
	}
	file.Location = location
	s.logger.Info("Export stored",
		zap.String("file", file.FileName),
		zap.Int("rows", file.Rows),
	)
	return nil
}

// ParseOperation decodes params into the operation named by kind
func ParseOperation(kind bulk.Kind, params json.RawMessage) (bulk.Operation, error) {
	switch kind {
	case bulk.KindUpdatePrice:
		var p PriceParams
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		return bulk.PriceUpdate{Mode: bulk.PriceMode(p.Mode), Value: p.Value}, nil

	case bulk.KindUpdateCategory:
		var p CategoryParams
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		return bulk.CategoryUpdate{Category: p.Category}, nil

	case bulk.KindUpdateStock:
		var p StockParams
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		return bulk.StockUpdate{
			Adjustment: inventory.Adjustment{Mode: inventory.AdjustmentMode(p.Mode), Value: p.Value},
			Reason:     p.Reason,
		}, nil

	case bulk.KindExport:
		return bulk.Export{}, nil

	case bulk.KindDelete:
		var p DeleteParams
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		return bulk.Delete{Confirmed: p.Confirmed, Permanent: p.Permanent}, nil
	}

	return nil, shared.NewDomainError(shared.CodeInvalidOperation, "Unknown operation: "+string(kind))
}

func decodeParams(raw json.RawMessage, dest any) error {
	if len(raw) == 0 || string(raw) == "null" {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return shared.NewDomainError(shared.CodeInvalidOperation, "Invalid operation parameters: "+err.Error())
	}
	if err := validate.Struct(dest); err != nil {
		return validationError(err)
	}
	return nil
}

// validationError reports the first failing field as an INVALID_OPERATION
// domain error
func validationError(err error) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		fe := errs[0]
		return shared.NewDomainError(shared.CodeInvalidOperation,
			fmt.Sprintf("Field %s failed %s validation", fe.Field(), fe.Tag()))
	}
	return shared.NewDomainError(shared.CodeInvalidOperation, err.Error())
}
