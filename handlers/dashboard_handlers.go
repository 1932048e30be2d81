package handlers

import (
	"fmt"
	"log"

	"pharmapos/middleware"
	"pharmapos/models"

	"github.com/gofiber/fiber/v2"
)

// ComputeInventoryStats derives stock counters from a product
// snapshot. Nothing is cached; every read recomputes from the list.
func ComputeInventoryStats(products []models.Product) models.InventoryStats {
	stats := models.InventoryStats{Categories: []models.CategoryCount{}}

	counts := map[string]int{}
	var order []string
	for _, p := range products {
		stats.TotalItems += p.CurrentStock
		if p.CurrentStock == 0 {
			stats.OutOfStock++
		} else if p.CurrentStock <= p.ReorderLevel {
			stats.LowStock++
		}
		if _, ok := counts[p.Category]; !ok {
			order = append(order, p.Category)
		}
		counts[p.Category]++
	}
	for _, name := range order {
		stats.Categories = append(stats.Categories, models.CategoryCount{Name: name, Count: counts[name]})
	}
	return stats
}

// ComputeRestockSuggestions derives a suggestion for every product at
// or below its reorder level. The reason text carries the actual unit
// count.
func ComputeRestockSuggestions(products []models.Product) []models.RestockSuggestion {
	suggestions := []models.RestockSuggestion{}
	for _, p := range products {
		if p.CurrentStock > p.ReorderLevel {
			continue
		}

		suggested := p.ReorderLevel * 2
		if suggested < 50 {
			suggested = 50
		}

		priority := "low"
		reason := fmt.Sprintf("Low stock (%d units)", p.CurrentStock)
		switch {
		case p.CurrentStock == 0:
			priority = "high"
			reason = "Out of stock"
		case p.CurrentStock <= p.ReorderLevel/2:
			priority = "medium"
		}

		suggestions = append(suggestions, models.RestockSuggestion{
			ProductID:         p.ID,
			ProductName:       p.Name,
			CurrentStock:      p.CurrentStock,
			SuggestedQuantity: suggested,
			Priority:          priority,
			Reason:            reason,
		})
	}
	return suggestions
}

// HandleGetInventoryStats returns the derived inventory counters.
// GET /api/v1/dashboard/stats
func HandleGetInventoryStats(c *fiber.Ctx) error {
	products, err := fetchProducts(c, middleware.UserCode(c))
	if err != nil {
		log.Printf("Error fetching products for stats: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to retrieve products"})
	}
	return c.JSON(fiber.Map{"status": "success", "data": ComputeInventoryStats(products)})
}

// HandleGetRestockSuggestions returns restock suggestions for every
// low or out-of-stock product.
// GET /api/v1/dashboard/restock-suggestions
func HandleGetRestockSuggestions(c *fiber.Ctx) error {
	products, err := fetchProducts(c, middleware.UserCode(c))
	if err != nil {
		log.Printf("Error fetching products for restock suggestions: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to retrieve products"})
	}
	return c.JSON(fiber.Map{"status": "success", "data": ComputeRestockSuggestions(products)})
}
