package routes

import (
	"muebles_back_end/internal/handlers"
	"muebles_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Deps agrupa todo lo que las rutas necesitan, armado en main
type Deps struct {
	Orders     *handlers.OrderHandler
	Webhooks   *handlers.WebhookHandler
	Products   *handlers.ProductHandler
	Categories *handlers.CategoryHandler
	JWTSecret  string
}

func Register(r *gin.Engine, d Deps) {
	api := r.Group("/api")
	admin := middleware.AuthRequired(d.JWTSecret)

	// --- Pedidos ---
	api.POST("/orders", d.Orders.Create)
	api.GET("/orders/number/:orderNumber", d.Orders.FindByNumber)
	api.PUT("/orders/:id/cancel", d.Orders.Cancel)
	api.PUT("/orders/:id/status", admin, middleware.RequireAdmin, d.Orders.UpdateStatus)
	api.GET("/orders/statistics", admin, middleware.RequireAdmin, d.Orders.Statistics)

	// --- Webhooks de pago ---
	api.POST("/webhooks/mercadopago", d.Webhooks.Mercadopago)

	// --- Catálogo ---
	api.GET("/products", d.Products.Find)
	api.GET("/products/featured", d.Products.FindFeatured)
	api.GET("/products/search", d.Products.Search)
	api.GET("/products/slug/:slug", d.Products.FindBySlug)
	api.GET("/products/:id", d.Products.FindOne)
	api.POST("/products", admin, middleware.RequireAdmin, d.Products.Create)
	api.PUT("/products/:id/stock", admin, middleware.RequireAdmin, d.Products.UpdateStock)
	api.POST("/products/:id/image", admin, middleware.RequireAdmin, d.Products.UploadImage)

	// --- Categorías ---
	api.GET("/categories", d.Categories.List)
	api.GET("/categories/tree", d.Categories.Tree)
	api.GET("/categories/slug/:slug", d.Categories.BySlug)
	api.POST("/categories", admin, middleware.RequireAdmin, d.Categories.Create)
}
