package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"

	"pharmapos/config"
	"pharmapos/middleware"
	"pharmapos/models"
	"pharmapos/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ComposeAssistantReply answers an inventory question from live data
// using keyword routing. It is pure over its inputs so it can be
// tested without a database or model client.
func ComposeAssistantReply(message string, products []models.Product, sales []models.Sale) string {
	lower := strings.ToLower(message)

	switch {
	case strings.Contains(lower, "low") || strings.Contains(lower, "stock") || strings.Contains(lower, "inventory"):
		var low []models.Product
		for _, p := range products {
			if p.CurrentStock <= p.ReorderLevel {
				low = append(low, p)
			}
		}
		if len(low) == 0 {
			return "All products are above their reorder levels. No restocking needed right now."
		}
		var b strings.Builder
		fmt.Fprintf(&b, "%d product(s) need attention:", len(low))
		for i, p := range low {
			if i == 3 {
				fmt.Fprintf(&b, " and %d more.", len(low)-3)
				break
			}
			fmt.Fprintf(&b, " %s has %d units left (reorder at %d).", p.Name, p.CurrentStock, p.ReorderLevel)
		}
		return b.String()

	case strings.Contains(lower, "sales") || strings.Contains(lower, "revenue"):
		total := 0.0
		byProduct := map[string]float64{}
		for _, s := range sales {
			total += s.TotalAmount
			byProduct[s.ProductID] += s.TotalAmount
		}
		if len(sales) == 0 {
			return "No sales recorded yet."
		}
		topID, topRevenue := "", 0.0
		for id, revenue := range byProduct {
			if revenue > topRevenue {
				topID, topRevenue = id, revenue
			}
		}
		topName := topID
		for _, p := range products {
			if p.ID == topID {
				topName = p.Name
				break
			}
		}
		return fmt.Sprintf("You have %d sales totalling %s. Top seller: %s with %s in revenue.",
			len(sales), utils.FormatCurrency(total), topName, utils.FormatCurrency(topRevenue))

	case strings.Contains(lower, "forecast") || strings.Contains(lower, "predict") || strings.Contains(lower, "analytics"):
		return "Run a full analysis from the dashboard to get demand forecasts, price suggestions and anomaly reports for your catalog."

	default:
		return "I can help with stock levels, sales figures and forecasts. Try asking about low stock or today's revenue."
	}
}

// askGemini enriches a data-grounded answer with the generative model.
// Any failure falls back to the plain answer; the assistant must work
// without an API key.
func askGemini(ctx context.Context, message, grounded string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(config.AppConfig.GeminiAPIKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-1.5-pro")
	prompt := fmt.Sprintf(
		"You are a retail inventory assistant. The user asked: %q. Facts from their live data: %s. Answer in two sentences at most, using only those facts.",
		message, grounded)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty model response")
	}
	if text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text); ok {
		return string(text), nil
	}
	return "", fmt.Errorf("unexpected part type in model response")
}

// HandleAssistantChat answers a free-text question about the caller's
// inventory and sales.
// POST /api/v1/assistant/chat
func HandleAssistantChat(c *fiber.Ctx) error {
	userCode := middleware.UserCode(c)

	var req models.AssistantRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "A message is required"})
	}

	products, err := fetchProducts(c, userCode)
	if err != nil {
		log.Printf("Error fetching products for assistant: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to retrieve products"})
	}
	sales, err := fetchSalesAsc(c, userCode)
	if err != nil {
		log.Printf("Error fetching sales for assistant: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to retrieve sales"})
	}

	reply := ComposeAssistantReply(req.Message, products, sales)

	if config.AppConfig.GeminiAPIKey != "" {
		if enriched, err := askGemini(c.Context(), req.Message, reply); err != nil {
			log.Printf("Gemini enrichment failed, using grounded answer: %v", err)
		} else {
			reply = enriched
		}
	}

	return c.JSON(fiber.Map{"status": "success", "data": fiber.Map{"reply": reply}})
}
