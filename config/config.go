package config

import "os"

// Config holds application configuration loaded from the environment.
// This is a simple way to make config accessible globally.
type Config struct {
	JWTSecret string

	// Outbound Make.com webhook endpoints. Each one is optional; an
	// empty URL means that category of report is simply not delivered.
	WebhookURL          string // default / sales
	AIWebhookURL        string
	AnalyticsWebhookURL string
	AlertsWebhookURL    string

	GeminiAPIKey string
}

// AppConfig holds the application-wide configuration.
var AppConfig Config

// Load reads all configuration from environment variables.
func Load() {
	AppConfig = Config{
		JWTSecret:           os.Getenv("JWT_SECRET"),
		WebhookURL:          os.Getenv("MAKE_WEBHOOK_URL"),
		AIWebhookURL:        os.Getenv("MAKE_AI_WEBHOOK_URL"),
		AnalyticsWebhookURL: os.Getenv("MAKE_ANALYTICS_WEBHOOK_URL"),
		AlertsWebhookURL:    os.Getenv("MAKE_ALERTS_WEBHOOK_URL"),
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
	}
}
