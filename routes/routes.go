package routes

import (
	"pharmapos/handlers"
	"pharmapos/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes registers the full API surface under /api/v1. Everything
// except login requires a bearer token.
func SetupRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/login", handlers.HandleLogin)

	products := api.Group("/products", middleware.Authenticate)
	products.Get("/", handlers.HandleListProducts)
	products.Put("/:productId", handlers.HandleUpdateProduct)

	sales := api.Group("/sales", middleware.Authenticate)
	sales.Get("/", handlers.HandleListSales)
	sales.Post("/", handlers.HandleCreateSale)

	dashboard := api.Group("/dashboard", middleware.Authenticate)
	dashboard.Get("/stats", handlers.HandleGetInventoryStats)
	dashboard.Get("/restock-suggestions", handlers.HandleGetRestockSuggestions)

	analysis := api.Group("/analysis", middleware.Authenticate)
	analysis.Post("/run", handlers.HandleRunAnalysis)

	assistant := api.Group("/assistant", middleware.Authenticate)
	assistant.Post("/chat", handlers.HandleAssistantChat)

	webhooks := api.Group("/webhooks", middleware.Authenticate)
	webhooks.Get("/status", handlers.HandleWebhookStatus)
}
