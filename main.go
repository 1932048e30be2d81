package main

import (
	"log"
	"os"

	"pharmapos/config"
	"pharmapos/database"
	"pharmapos/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from the environment")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}
	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	config.Load()
	if config.AppConfig.WebhookURL == "" {
		log.Println("MAKE_WEBHOOK_URL is not set, default webhook deliveries will be skipped")
	}
	if config.AppConfig.AIWebhookURL == "" {
		log.Println("MAKE_AI_WEBHOOK_URL is not set, AI report deliveries will be skipped")
	}
	if config.AppConfig.AnalyticsWebhookURL == "" {
		log.Println("MAKE_ANALYTICS_WEBHOOK_URL is not set, analytics deliveries will be skipped")
	}
	if config.AppConfig.AlertsWebhookURL == "" {
		log.Println("MAKE_ALERTS_WEBHOOK_URL is not set, alert deliveries will be skipped")
	}

	database.InitDB(databaseURL)
	defer database.CloseDB()

	app := fiber.New()
	app.Use(cors.New())

	routes.SetupRoutes(app)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	log.Printf("Server starting on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
