package handlers

import (
	"log"

	"pharmapos/ai"
	"pharmapos/config"
	"pharmapos/middleware"
	"pharmapos/webhook"

	"github.com/gofiber/fiber/v2"
)

// HandleRunAnalysis executes a full analysis over the caller's current
// product and sales snapshots: demand forecasts, AI predictions, price
// optimizations, customer behavior and inventory anomalies. Each
// report is dispatched to its webhook as it is produced; failed
// deliveries are counted in the summary but never abort the run.
// POST /api/v1/analysis/run
func HandleRunAnalysis(c *fiber.Ctx) error {
	userCode := middleware.UserCode(c)

	products, err := fetchProducts(c, userCode)
	if err != nil {
		log.Printf("Error fetching products for analysis: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to retrieve products"})
	}
	sales, err := fetchSalesAsc(c, userCode)
	if err != nil {
		log.Printf("Error fetching sales for analysis: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to retrieve sales"})
	}

	hooks := webhook.NewClient(config.AppConfig, userCode)
	svc := ai.NewService(userCode, hooks, nil)
	summary := svc.RunFullAnalysis(products, sales)

	log.Printf("Analysis run for %s: %d forecasts, %d predictions, %d anomalies, %d webhooks delivered, %d failed",
		userCode, summary.Forecasts, summary.Predictions, summary.Anomalies, summary.WebhooksDelivered, summary.WebhooksFailed)

	return c.JSON(fiber.Map{"status": "success", "data": summary})
}

// HandleWebhookStatus reports which webhook endpoints are configured.
// GET /api/v1/webhooks/status
func HandleWebhookStatus(c *fiber.Ctx) error {
	hooks := webhook.NewClient(config.AppConfig, middleware.UserCode(c))
	return c.JSON(fiber.Map{"status": "success", "data": hooks.Status()})
}
