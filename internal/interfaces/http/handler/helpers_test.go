package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	bulkapp "github.com/erp/stockdesk/internal/application/bulk"
	catalogapp "github.com/erp/stockdesk/internal/application/catalog"
	invapp "github.com/erp/stockdesk/internal/application/inventory"
	tradeapp "github.com/erp/stockdesk/internal/application/trade"
	"github.com/erp/stockdesk/internal/domain/bulk"
	"github.com/erp/stockdesk/internal/infrastructure/persistence"
	"github.com/erp/stockdesk/internal/infrastructure/persistence/models"
	"github.com/erp/stockdesk/internal/interfaces/http/middleware"
)

// testEnv wires real services over an in-memory SQLite database
type testEnv struct {
	engine *gin.Engine
	db     *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.AllModels()...))

	log := zaptest.NewLogger(t)
	productRepo := persistence.NewGormProductRepository(db)
	movementRepo := persistence.NewGormStockMovementRepository(db)
	quotationRepo := persistence.NewGormQuotationRepository(db)
	orderRepo := persistence.NewGormSalesOrderRepository(db)
	invoiceRepo := persistence.NewGormInvoiceRepository(db)
	tradeScope := persistence.NewGormTradeTransactionScope(db)
	inventoryScope := persistence.NewGormInventoryTransactionScope(db)

	products := NewProductHandler(catalogapp.NewProductService(productRepo, log))
	inventory := NewInventoryHandler(invapp.NewInventoryService(
		productRepo, movementRepo, inventoryScope, log))
	coordinator := bulk.NewCoordinator(productRepo, movementRepo).
		WithUnitOfWork(bulkapp.ScopedUnitOfWork(inventoryScope))
	bulkOps := NewBulkHandler(bulkapp.NewBulkService(coordinator, 3, log))
	quotations := NewQuotationHandler(tradeapp.NewQuotationService(quotationRepo, tradeScope, log))
	orders := NewSalesOrderHandler(tradeapp.NewSalesOrderService(orderRepo, tradeScope, log))
	invoices := NewInvoiceHandler(tradeapp.NewInvoiceService(invoiceRepo, log))
	totals := NewTotalsHandler()

	middleware.SetupValidator()
	engine := gin.New()
	engine.Use(middleware.RequestID())

	catalog := engine.Group("/catalog/products")
	catalog.POST("", products.Create)
	catalog.GET("", products.List)
	catalog.POST("/bulk", bulkOps.Execute)
	catalog.GET("/:id", products.GetByID)
	catalog.PUT("/:id", products.Update)

	inv := engine.Group("/inventory")
	inv.GET("/alerts", inventory.ListAlerts)
	inv.GET("/reorder-suggestions", inventory.ListReorderSuggestions)
	inv.GET("/valuation", inventory.GetValuation)
	inv.POST("/products/:id/adjust", inventory.AdjustStock)
	inv.GET("/products/:id/status", inventory.GetStatus)
	inv.GET("/products/:id/movements", inventory.ListMovements)

	trade := engine.Group("/trade")
	trade.POST("/totals/preview", totals.Preview)
	trade.POST("/quotations", quotations.Create)
	trade.GET("/quotations", quotations.List)
	trade.GET("/quotations/:id", quotations.Get)
	trade.POST("/quotations/:id/items", quotations.AddItem)
	trade.PUT("/quotations/:id/items/:item_id", quotations.UpdateItem)
	trade.DELETE("/quotations/:id/items/:item_id", quotations.RemoveItem)
	trade.PUT("/quotations/:id/pricing", quotations.SetPricing)
	trade.POST("/quotations/:id/send", quotations.Send)
	trade.POST("/quotations/:id/accept", quotations.Accept)
	trade.POST("/quotations/:id/reject", quotations.Reject)
	trade.POST("/quotations/:id/expire", quotations.Expire)
	trade.POST("/quotations/:id/convert", quotations.Convert)
	trade.GET("/orders", orders.List)
	trade.GET("/orders/:id", orders.Get)
	trade.POST("/orders/:id/confirm", orders.Confirm)
	trade.POST("/orders/:id/process", orders.Process)
	trade.POST("/orders/:id/ship", orders.Ship)
	trade.POST("/orders/:id/deliver", orders.Deliver)
	trade.POST("/orders/:id/cancel", orders.Cancel)
	trade.POST("/orders/:id/invoice", orders.Invoice)
	trade.GET("/invoices", invoices.List)
	trade.GET("/invoices/:id", invoices.Get)
	trade.POST("/invoices/:id/send", invoices.Send)
	trade.POST("/invoices/:id/pay", invoices.MarkPaid)
	trade.POST("/invoices/:id/overdue", invoices.MarkOverdue)
	trade.POST("/invoices/:id/cancel", invoices.Cancel)

	return &testEnv{engine: engine, db: db}
}

// do sends a request with an optional JSON body
func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

// data decodes the data field of a success envelope into dest
func data(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.True(t, envelope.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, dest))
}

// errorCode returns the error code of an error envelope
func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	resp := decodeResponse(t, w)
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

// createProduct creates a product over HTTP and returns its ID
func (e *testEnv) createProduct(t *testing.T, sku string, price string, qtyMin int64) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/catalog/products", map[string]any{
		"sku":             sku,
		"name":            "Product " + sku,
		"category":        "Hardware",
		"price":           price,
		"min_stock_level": qtyMin,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var p catalogapp.ProductResponse
	data(t, w, &p)
	return p.ID.String()
}

// setStock sets a product's quantity through the adjust endpoint
func (e *testEnv) setStock(t *testing.T, id string, qty int64) {
	t.Helper()
	w := e.do(t, http.MethodPost, "/inventory/products/"+id+"/adjust", map[string]any{
		"mode": "set", "value": qty, "reason": "count",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}
