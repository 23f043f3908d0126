package router

import (
	"github.com/erp/stockdesk/internal/interfaces/http/handler"
)

// Handlers groups the API handlers mounted by APIGroups
type Handlers struct {
	Products   *handler.ProductHandler
	Bulk       *handler.BulkHandler
	Inventory  *handler.InventoryHandler
	Quotations *handler.QuotationHandler
	Orders     *handler.SalesOrderHandler
	Invoices   *handler.InvoiceHandler
	Totals     *handler.TotalsHandler
}

// APIGroups declares the catalog, inventory and trade route groups
func APIGroups(h Handlers) []*DomainGroup {
	catalog := NewDomainGroup("catalog", "/catalog")
	products := catalog.Group("products", "/products")
	products.
		GET("", h.Products.List).
		POST("", h.Products.Create).
		POST("/bulk", h.Bulk.Execute).
		GET("/:id", h.Products.GetByID).
		PUT("/:id", h.Products.Update)

	inventory := NewDomainGroup("inventory", "/inventory")
	inventory.
		GET("/alerts", h.Inventory.ListAlerts).
		GET("/reorder-suggestions", h.Inventory.ListReorderSuggestions).
		GET("/valuation", h.Inventory.GetValuation)
	inventory.Group("stock", "/products/:id").
		POST("/adjust", h.Inventory.AdjustStock).
		GET("/movements", h.Inventory.ListMovements).
		GET("/status", h.Inventory.GetStatus)

	trade := NewDomainGroup("trade", "/trade")
	trade.POST("/totals/preview", h.Totals.Preview)

	trade.Group("quotations", "/quotations").
		GET("", h.Quotations.List).
		POST("", h.Quotations.Create).
		GET("/:id", h.Quotations.Get).
		POST("/:id/items", h.Quotations.AddItem).
		PUT("/:id/items/:item_id", h.Quotations.UpdateItem).
		DELETE("/:id/items/:item_id", h.Quotations.RemoveItem).
		PUT("/:id/pricing", h.Quotations.SetPricing).
		POST("/:id/send", h.Quotations.Send).
		POST("/:id/accept", h.Quotations.Accept).
		POST("/:id/reject", h.Quotations.Reject).
		POST("/:id/expire", h.Quotations.Expire).
		POST("/:id/convert", h.Quotations.Convert)

	trade.Group("orders", "/orders").
		GET("", h.Orders.List).
		GET("/:id", h.Orders.Get).
		POST("/:id/confirm", h.Orders.Confirm).
		POST("/:id/process", h.Orders.Process).
		POST("/:id/ship", h.Orders.Ship).
		POST("/:id/deliver", h.Orders.Deliver).
		POST("/:id/cancel", h.Orders.Cancel).
		POST("/:id/invoice", h.Orders.Invoice)

	trade.Group("invoices", "/invoices").
		GET("", h.Invoices.List).
		GET("/:id", h.Invoices.Get).
		POST("/:id/send", h.Invoices.Send).
		POST("/:id/pay", h.Invoices.MarkPaid).
		POST("/:id/overdue", h.Invoices.MarkOverdue).
		POST("/:id/cancel", h.Invoices.Cancel)

	return []*DomainGroup{catalog, inventory, trade}
}
