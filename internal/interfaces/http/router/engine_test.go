package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/erp/stockdesk/internal/infrastructure/config"
	"github.com/erp/stockdesk/internal/interfaces/http/handler"
	"github.com/erp/stockdesk/internal/interfaces/http/middleware"
)

func TestAPIGroups(t *testing.T) {
	var routes []RouteInfo
	for _, g := range APIGroups(Handlers{}) {
		routes = append(routes, g.Routes()...)
	}

	expected := []RouteInfo{
		{http.MethodGet, "/catalog/products"},
		{http.MethodPost, "/catalog/products"},
		{http.MethodPost, "/catalog/products/bulk"},
		{http.MethodGet, "/catalog/products/:id"},
		{http.MethodPut, "/catalog/products/:id"},
		{http.MethodGet, "/inventory/alerts"},
		{http.MethodGet, "/inventory/reorder-suggestions"},
		{http.MethodGet, "/inventory/valuation"},
		{http.MethodPost, "/inventory/products/:id/adjust"},
		{http.MethodGet, "/inventory/products/:id/movements"},
		{http.MethodGet, "/inventory/products/:id/status"},
		{http.MethodPost, "/trade/totals/preview"},
		{http.MethodGet, "/trade/quotations"},
		{http.MethodPost, "/trade/quotations"},
		{http.MethodGet, "/trade/quotations/:id"},
		{http.MethodPost, "/trade/quotations/:id/items"},
		{http.MethodPut, "/trade/quotations/:id/items/:item_id"},
		{http.MethodDelete, "/trade/quotations/:id/items/:item_id"},
		{http.MethodPut, "/trade/quotations/:id/pricing"},
		{http.MethodPost, "/trade/quotations/:id/send"},
		{http.MethodPost, "/trade/quotations/:id/accept"},
		{http.MethodPost, "/trade/quotations/:id/reject"},
		{http.MethodPost, "/trade/quotations/:id/expire"},
		{http.MethodPost, "/trade/quotations/:id/convert"},
		{http.MethodGet, "/trade/orders"},
		{http.MethodGet, "/trade/orders/:id"},
		{http.MethodPost, "/trade/orders/:id/confirm"},
		{http.MethodPost, "/trade/orders/:id/process"},
		{http.MethodPost, "/trade/orders/:id/ship"},
		{http.MethodPost, "/trade/orders/:id/deliver"},
		{http.MethodPost, "/trade/orders/:id/cancel"},
		{http.MethodPost, "/trade/orders/:id/invoice"},
		{http.MethodGet, "/trade/invoices"},
		{http.MethodGet, "/trade/invoices/:id"},
		{http.MethodPost, "/trade/invoices/:id/send"},
		{http.MethodPost, "/trade/invoices/:id/pay"},
		{http.MethodPost, "/trade/invoices/:id/overdue"},
		{http.MethodPost, "/trade/invoices/:id/cancel"},
	}
	assert.ElementsMatch(t, expected, routes)
}

func TestNewEngine(t *testing.T) {
	engine := NewEngine(EngineConfig{
		Logger: zaptest.NewLogger(t),
		HTTP: config.HTTPConfig{
			MaxBodyBytes:     64,
			CORSAllowOrigins: []string{"https://console.example.com"},
		},
		ServiceName: "stockdesk-test",
	}, handler.NewSystemHandler("test", nil), Handlers{})

	t.Run("mounts api routes", func(t *testing.T) {
		registered := make(map[string]bool)
		for _, r := range engine.Routes() {
			registered[r.Method+" "+r.Path] = true
		}
		assert.True(t, registered["GET /health"])
		assert.True(t, registered["POST /api/v1/catalog/products/bulk"])
		assert.True(t, registered["POST /api/v1/trade/invoices/:id/pay"])
	})

	t.Run("health passes through the middleware chain", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://console.example.com")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, w.Header().Get(middleware.RequestIDHeader), 32)
		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
		assert.Equal(t, "https://console.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin gets no cors headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("oversized body is rejected", func(t *testing.T) {
		body := strings.NewReader(`{"description":"` + strings.Repeat("x", 200) + `"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/trade/totals/preview", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		w := serve(engine, http.MethodDelete, "/health")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}
