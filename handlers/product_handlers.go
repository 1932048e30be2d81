package handlers

import (
	"fmt"
	"log"

	"pharmapos/database"
	"pharmapos/middleware"
	"pharmapos/models"

	"github.com/gofiber/fiber/v2"
)

// fetchProducts loads every product for a user code, ordered by name.
func fetchProducts(c *fiber.Ctx, userCode string) ([]models.Product, error) {
	query := `
		SELECT id, user_code, name, sku, price, current_stock, category, reorder_level, last_sold, created_at
		FROM products
		WHERE user_code = $1
		ORDER BY name`
	rows, err := database.GetDB().Query(c.Context(), query, userCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.UserCode, &p.Name, &p.SKU, &p.Price, &p.CurrentStock, &p.Category, &p.ReorderLevel, &p.LastSold, &p.CreatedAt); err != nil {
			log.Printf("Error scanning product row: %v", err)
			continue
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// HandleListProducts lists the caller's products.
// GET /api/v1/products
func HandleListProducts(c *fiber.Ctx) error {
	products, err := fetchProducts(c, middleware.UserCode(c))
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to retrieve products"})
	}
	if products == nil {
		products = []models.Product{}
	}
	return c.JSON(fiber.Map{"status": "success", "data": products})
}

// HandleUpdateProduct applies a partial update to one product.
// PUT /api/v1/products/:productId
func HandleUpdateProduct(c *fiber.Ctx) error {
	productID := c.Params("productId")
	userCode := middleware.UserCode(c)

	var req models.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}

	sets := []string{}
	args := []interface{}{}
	addSet := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if req.Name != nil {
		addSet("name", *req.Name)
	}
	if req.Price != nil {
		addSet("price", *req.Price)
	}
	if req.CurrentStock != nil {
		if *req.CurrentStock < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Stock cannot be negative"})
		}
		addSet("current_stock", *req.CurrentStock)
	}
	if req.Category != nil {
		addSet("category", *req.Category)
	}
	if req.ReorderLevel != nil {
		addSet("reorder_level", *req.ReorderLevel)
	}
	if len(sets) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "No fields to update"})
	}

	args = append(args, productID, userCode)
	query := "UPDATE products SET "
	for i, set := range sets {
		if i > 0 {
			query += ", "
		}
		query += set
	}
	query += fmt.Sprintf(" WHERE id = $%d AND user_code = $%d", len(args)-1, len(args))
	query += " RETURNING id, user_code, name, sku, price, current_stock, category, reorder_level, last_sold, created_at"

	var p models.Product
	err := database.GetDB().QueryRow(c.Context(), query, args...).Scan(
		&p.ID, &p.UserCode, &p.Name, &p.SKU, &p.Price, &p.CurrentStock, &p.Category, &p.ReorderLevel, &p.LastSold, &p.CreatedAt,
	)
	if err != nil {
		log.Printf("Error updating product %s: %v", productID, err)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Product not found"})
	}

	return c.JSON(fiber.Map{"status": "success", "data": p})
}
