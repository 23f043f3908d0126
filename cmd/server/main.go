package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	bulkapp "github.com/erp/stockdesk/internal/application/bulk"
	catalogapp "github.com/erp/stockdesk/internal/application/catalog"
	invapp "github.com/erp/stockdesk/internal/application/inventory"
	tradeapp "github.com/erp/stockdesk/internal/application/trade"
	"github.com/erp/stockdesk/internal/domain/bulk"
	"github.com/erp/stockdesk/internal/domain/shared"
	"github.com/erp/stockdesk/internal/infrastructure/cache"
	"github.com/erp/stockdesk/internal/infrastructure/config"
	"github.com/erp/stockdesk/internal/infrastructure/event"
	"github.com/erp/stockdesk/internal/infrastructure/logger"
	"github.com/erp/stockdesk/internal/infrastructure/persistence"
	"github.com/erp/stockdesk/internal/infrastructure/scheduler"
	"github.com/erp/stockdesk/internal/infrastructure/storage"
	"github.com/erp/stockdesk/internal/infrastructure/telemetry"
	"github.com/erp/stockdesk/internal/interfaces/http/handler"
	"github.com/erp/stockdesk/internal/interfaces/http/middleware"
	"github.com/erp/stockdesk/internal/interfaces/http/router"
)

// documentService is the wiring surface shared by the trade services
type documentService interface {
	SetEventPublisher(publisher shared.EventPublisher)
	SetInventoryMetrics(metrics *telemetry.InventoryMetrics)
}

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting stockdesk",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	db, err := persistence.NewDatabase(&cfg.Database, log, cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	ctx := context.Background()

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	quotationRepo := persistence.NewGormQuotationRepository(db.DB)
	orderRepo := persistence.NewGormSalesOrderRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	inventoryScope := persistence.NewGormInventoryTransactionScope(db.DB)
	tradeScope := persistence.NewGormTradeTransactionScope(db.DB)

	// Valuation cache, Redis when configured
	valuationCache := cache.NewValuationCache(ctx, cfg.Redis, cfg.Inventory.ValuationCacheTTL, log)
	if closer, ok := valuationCache.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				log.Error("Error closing valuation cache", zap.Error(err))
			}
		}()
	}

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)
	stockAlertHandler := invapp.NewStockAlertHandler(log)
	eventBus.Subscribe(stockAlertHandler, stockAlertHandler.EventTypes()...)
	valuationInvalidator := invapp.NewValuationInvalidator(valuationCache, log)
	eventBus.Subscribe(valuationInvalidator, valuationInvalidator.EventTypes()...)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Metrics
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	meter := meterProvider.Meter(cfg.Telemetry.ServiceName)
	inventoryMetrics, err := telemetry.NewInventoryMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create inventory metrics", zap.Error(err))
	}

	// Application services
	productService := catalogapp.NewProductService(productRepo, log)
	productService.SetEventPublisher(eventBus)

	inventoryService := invapp.NewInventoryService(productRepo, movementRepo, inventoryScope, log)
	inventoryService.SetEventPublisher(eventBus)
	inventoryService.SetValuationCache(valuationCache)
	inventoryService.SetInventoryMetrics(inventoryMetrics)

	coordinator := bulk.NewCoordinator(productRepo, movementRepo).
		WithUnitOfWork(bulkapp.ScopedUnitOfWork(inventoryScope))
	bulkService := bulkapp.NewBulkService(coordinator, cfg.Inventory.MaxBulkItems, log)
	bulkService.SetEventPublisher(eventBus)
	bulkService.SetInventoryMetrics(inventoryMetrics)
	if cfg.Storage.Enabled {
		exportStore, err := storage.NewS3ExportStore(ctx, cfg.Storage, cfg.Inventory.ExportPrefix, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize export storage", zap.Error(err))
		}
		bulkService.SetExportStore(exportStore)
	}

	quotationService := tradeapp.NewQuotationService(quotationRepo, tradeScope, log)
	orderService := tradeapp.NewSalesOrderService(orderRepo, tradeScope, log)
	invoiceService := tradeapp.NewInvoiceService(invoiceRepo, log)
	for _, s := range []documentService{quotationService, orderService, invoiceService} {
		s.SetEventPublisher(eventBus)
		s.SetInventoryMetrics(inventoryMetrics)
	}

	// Background maintenance
	maintenance := scheduler.NewMaintenanceScheduler(invoiceService, inventoryService, log, scheduler.Config{
		Enabled:         cfg.Maintenance.Enabled,
		OverdueInterval: cfg.Maintenance.OverdueInterval,
		AlertInterval:   cfg.Maintenance.AlertInterval,
		JobTimeout:      cfg.Maintenance.JobTimeout,
	})
	if err := maintenance.Start(ctx); err != nil {
		log.Fatal("Failed to start maintenance scheduler", zap.Error(err))
	}

	// HTTP
	middleware.SetupValidator()
	system := handler.NewSystemHandler(version, map[string]handler.HealthChecker{"database": db}).
		WithDetail("database_pool", func() (any, error) { return db.Stats() })

	engine := router.NewEngine(router.EngineConfig{
		Logger:         log,
		HTTP:           cfg.HTTP,
		ServiceName:    cfg.Telemetry.ServiceName,
		TracingEnabled: cfg.Telemetry.Enabled,
		Meter:          meter,
		Production:     cfg.App.IsProduction(),
	}, system, router.Handlers{
		Products:   handler.NewProductHandler(productService),
		Bulk:       handler.NewBulkHandler(bulkService),
		Inventory:  handler.NewInventoryHandler(inventoryService),
		Quotations: handler.NewQuotationHandler(quotationService),
		Orders:     handler.NewSalesOrderHandler(orderService),
		Invoices:   handler.NewInvoiceHandler(invoiceService),
		Totals:     handler.NewTotalsHandler(),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := maintenance.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping maintenance scheduler", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error flushing metrics", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
