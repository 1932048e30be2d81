package handlers

import (
	"log"
	"time"

	"pharmapos/config"
	"pharmapos/database"
	"pharmapos/middleware"
	"pharmapos/models"
	"pharmapos/webhook"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// fetchSalesAsc loads a user's full sales history in insertion order,
// which is the order the analytics windows are defined over.
func fetchSalesAsc(c *fiber.Ctx, userCode string) ([]models.Sale, error) {
	query := `
		SELECT id, user_code, product_id, quantity, total_amount, timestamp
		FROM sales
		WHERE user_code = $1
		ORDER BY timestamp ASC`
	rows, err := database.GetDB().Query(c.Context(), query, userCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []models.Sale
	for rows.Next() {
		var s models.Sale
		if err := rows.Scan(&s.ID, &s.UserCode, &s.ProductID, &s.Quantity, &s.TotalAmount, &s.Timestamp); err != nil {
			log.Printf("Error scanning sale row: %v", err)
			continue
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

// HandleListSales lists the caller's sales, most recent first.
// GET /api/v1/sales
func HandleListSales(c *fiber.Ctx) error {
	userCode := middleware.UserCode(c)

	query := `
		SELECT id, user_code, product_id, quantity, total_amount, timestamp
		FROM sales
		WHERE user_code = $1
		ORDER BY timestamp DESC`
	rows, err := database.GetDB().Query(c.Context(), query, userCode)
	if err != nil {
		log.Printf("Error listing sales: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to retrieve sales"})
	}
	defer rows.Close()

	sales := []models.Sale{}
	for rows.Next() {
		var s models.Sale
		if err := rows.Scan(&s.ID, &s.UserCode, &s.ProductID, &s.Quantity, &s.TotalAmount, &s.Timestamp); err != nil {
			log.Printf("Error scanning sale row: %v", err)
			continue
		}
		sales = append(sales, s)
	}

	return c.JSON(fiber.Map{"status": "success", "data": sales})
}

// HandleCreateSale records a sale: the sale row is inserted and the
// product stock decremented in one transaction, then the sale is
// reported to the sales webhook. Webhook failures are logged only and
// never fail the request.
// POST /api/v1/sales
func HandleCreateSale(c *fiber.Ctx) error {
	userCode := middleware.UserCode(c)

	var req models.CreateSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}
	if req.ProductID == "" || req.Quantity <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "product_id and a positive quantity are required"})
	}

	ctx := c.Context()
	db := database.GetDB()

	tx, err := db.Begin(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to start transaction"})
	}
	defer tx.Rollback(ctx)

	var product models.Product
	productQuery := `
		SELECT id, user_code, name, sku, price, current_stock, category, reorder_level, last_sold, created_at
		FROM products
		WHERE id = $1 AND user_code = $2
		FOR UPDATE`
	if err := tx.QueryRow(ctx, productQuery, req.ProductID, userCode).Scan(
		&product.ID, &product.UserCode, &product.Name, &product.SKU, &product.Price,
		&product.CurrentStock, &product.Category, &product.ReorderLevel, &product.LastSold, &product.CreatedAt,
	); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Product not found"})
	}

	if product.CurrentStock < req.Quantity {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"status": "error", "message": "Insufficient stock"})
	}

	now := time.Now().UTC()
	sale := models.Sale{
		ID:          uuid.NewString(),
		UserCode:    userCode,
		ProductID:   product.ID,
		Quantity:    req.Quantity,
		TotalAmount: product.Price * float64(req.Quantity),
		Timestamp:   now,
	}

	saleQuery := `
		INSERT INTO sales (id, user_code, product_id, quantity, total_amount, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := tx.Exec(ctx, saleQuery, sale.ID, sale.UserCode, sale.ProductID, sale.Quantity, sale.TotalAmount, sale.Timestamp); err != nil {
		log.Printf("Error creating sale: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to create sale"})
	}

	stockQuery := `
		UPDATE products
		SET current_stock = current_stock - $1, last_sold = $2
		WHERE id = $3`
	if _, err := tx.Exec(ctx, stockQuery, req.Quantity, now, product.ID); err != nil {
		log.Printf("Error updating stock for product %s: %v", product.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to update stock"})
	}

	if err := tx.Commit(ctx); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to commit transaction"})
	}

	// Fire-and-forget outbound reporting.
	hooks := webhook.NewClient(config.AppConfig, userCode)
	hooks.SendSale(sale)

	product.CurrentStock -= req.Quantity
	product.LastSold = &now
	if product.CurrentStock <= product.ReorderLevel {
		hooks.SendLowStockAlert([]models.Product{product})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": sale})
}
