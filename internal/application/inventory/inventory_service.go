package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/erp/stockdesk/internal/domain/catalog"
	"github.com/erp/stockdesk/internal/domain/inventory"
	"github.com/erp/stockdesk/internal/domain/shared"
	"github.com/erp/stockdesk/internal/infrastructure/telemetry"
)

// ValuationCache stores the last computed valuation report. Get returns
// (nil, nil) on a miss. Set drops the report when generation is no longer
// current, i.e. an Invalidate happened since Generation was read.
type ValuationCache interface {
	Get(ctx context.Context) (*inventory.ValuationReport, error)
	Generation(ctx context.Context) (uint64, error)
	Set(ctx context.Context, generation uint64, report *inventory.ValuationReport) error
	Invalidate(ctx context.Context) error
}

// InventoryService handles stock adjustment, alerting, reorder and valuation
type InventoryService struct {
	productRepo    catalog.ProductRepository
	movementRepo   inventory.StockMovementRepository
	txScope        TransactionScope
	cache          ValuationCache
	eventPublisher shared.EventPublisher
	metrics        *telemetry.InventoryMetrics
	logger         *zap.Logger
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	productRepo catalog.ProductRepository,
	movementRepo inventory.StockMovementRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *InventoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryService{
		productRepo:  productRepo,
		movementRepo: movementRepo,
		txScope:      txScope,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *InventoryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetValuationCache enables caching of GetValuation
func (s *InventoryService) SetValuationCache(cache ValuationCache) {
	s.cache = cache
}

// SetInventoryMetrics sets the metrics collector
func (s *InventoryService) SetInventoryMetrics(metrics *telemetry.InventoryMetrics) {
	s.metrics = metrics
}

// AdjustStock applies a set/increase/decrease adjustment to a product and
// records the movement. Decreases below zero are clamped at zero and reported
// as Clamped.
func (s *InventoryService) AdjustStock(ctx context.Context, productID uuid.UUID, req AdjustStockRequest) (*AdjustStockResponse, error) {
	adj := req.Adjustment()
	if err := adj.Validate(); err != nil {
		return nil, err
	}

	var (
		product  *catalog.Product
		movement inventory.StockMovement
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		p, err := findProduct(ctx, repos.ProductRepo(), productID)
		if err != nil {
			return err
		}

		next, mv, err := inventory.ApplyAdjustment(p.StockQuantity, adj, req.Reason)
		if err != nil {
			return err
		}
		if err := p.SetStockQuantity(next); err != nil {
			return err
		}
		if err := repos.ProductRepo().Save(ctx, p); err != nil {
			return err
		}

		mv.ProductID = p.ID
		mv.Source = inventory.MovementSourceManual
		if err := repos.MovementRepo().Append(ctx, &mv); err != nil {
			return err
		}

		product, movement = p, mv
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Stock adjusted",
		zap.String("product_id", productID.String()),
		zap.String("mode", string(movement.Mode)),
		zap.Int64("old_quantity", movement.OldQuantity),
		zap.Int64("new_quantity", movement.NewQuantity),
		zap.Bool("clamped", movement.Clamped()),
	)
	if s.metrics != nil {
		s.metrics.RecordAdjustment(ctx, movement)
	}
	s.publish(ctx, inventory.AdjustmentEvents(product, movement)...)

	return &AdjustStockResponse{
		Movement: movement,
		Clamped:  movement.Clamped(),
		Status:   ToStockStatusResponse(product),
	}, nil
}

// GetStatus classifies a single product
func (s *InventoryService) GetStatus(ctx context.Context, productID uuid.UUID) (*StockStatusResponse, error) {
	p, err := findProduct(ctx, s.productRepo, productID)
	if err != nil {
		return nil, err
	}
	resp := ToStockStatusResponse(p)
	return &resp, nil
}

// ListAlerts returns the open stock alerts, critical first
func (s *InventoryService) ListAlerts(ctx context.Context) (*AlertListResponse, error) {
	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	alerts := inventory.BuildStockAlerts(products)
	counts := map[inventory.AlertSeverity]int{
		inventory.SeverityCritical: 0,
		inventory.SeverityHigh:     0,
		inventory.SeverityMedium:   0,
		inventory.SeverityLow:      0,
	}
	for _, a := range alerts {
		counts[a.Severity]++
	}
	if s.metrics != nil {
		s.metrics.RecordOpenAlerts(ctx, alerts)
	}

	return &AlertListResponse{Alerts: alerts, Counts: counts, Total: len(alerts)}, nil
}

// ListReorderSuggestions returns suggestions for active products at or below
// their minimum level
func (s *InventoryService) ListReorderSuggestions(ctx context.Context) (*ReorderListResponse, error) {
	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	suggestions := inventory.BuildReorderSuggestions(products)
	return &ReorderListResponse{
		Suggestions: suggestions,
		TotalCost:   inventory.TotalReorderCost(suggestions),
	}, nil
}

// GetValuation returns the inventory valuation report. A cached report is
// served unless refresh is set; cache failures fall through to a fresh
// computation.
func (s *InventoryService) GetValuation(ctx context.Context, refresh bool) (*inventory.ValuationReport, error) {
	if s.cache != nil && !refresh {
		report, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("Valuation cache read failed", zap.Error(err))
		} else if report != nil {
			return report, nil
		}
	}

	// The generation is taken before reading products so an invalidation
	// during the computation keeps this report out of the cache.
	cacheable := s.cache != nil
	var generation uint64
	if cacheable {
		gen, err := s.cache.Generation(ctx)
		if err != nil {
			s.logger.Warn("Valuation cache generation read failed", zap.Error(err))
			cacheable = false
		}
		generation = gen
	}

	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	report := inventory.ValuateInventory(products)

	if cacheable {
		if err := s.cache.Set(ctx, generation, &report); err != nil {
			s.logger.Warn("Valuation cache write failed", zap.Error(err))
		}
	}
	return &report, nil
}

// ListMovements returns a page of a product's movement history and the total
// number of movements
func (s *InventoryService) ListMovements(ctx context.Context, productID uuid.UUID, filter MovementListFilter) ([]inventory.StockMovement, int64, error) {
	if _, err := findProduct(ctx, s.productRepo, productID); err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	movements, err := s.movementRepo.FindByProduct(ctx, productID, shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	})
	if err != nil {
		return nil, 0, err
	}
	total, err := s.movementRepo.CountByProduct(ctx, productID)
	if err != nil {
		return nil, 0, err
	}
	return movements, total, nil
}

func (s *InventoryService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish inventory events", zap.Error(err))
	}
}

// findProduct maps a missing product to PRODUCT_NOT_FOUND
func findProduct(ctx context.Context, repo catalog.ProductRepository, id uuid.UUID) (*catalog.Product, error) {
	p, err := repo.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewDomainError(shared.CodeProductNotFound, "Product not found")
	}
	return p, err
}
