package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pescaderia-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC  productService
	StockQuery stockQueryService
	AdjustUC   stockAdjuster
	OrderUC    orderPlacer
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	productHandler := NewProductHandler(deps.ProductUC)
	inventoryHandler := NewInventoryHandler(deps.StockQuery, deps.AdjustUC)
	orderHandler := NewOrderHandler(deps.OrderUC)

	// Catálogo y stock (cualquier usuario autenticado)
	products := protected.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Get("/:id/stock", inventoryHandler.GetStock)
	products.Get("/:id/availability", inventoryHandler.CheckAvailability)

	// Pedidos
	protected.Post("/orders", orderHandler.PlaceOrder)

	// Consola de administración (solo admin)
	admin := protected.Group("/admin", RequireRole(jwt.RoleAdmin))
	admin.Post("/products", productHandler.Create)
	admin.Put("/products/:id", productHandler.Update)
	admin.Put("/products/:id/stock", inventoryHandler.AdjustStock)
}
