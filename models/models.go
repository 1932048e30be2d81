package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// --- JWT & Auth ---

type JwtClaims struct {
	UserID       string `json:"userId"`
	UserCode     string `json:"userCode"`
	BusinessName string `json:"businessName"`
	jwt.RegisteredClaims
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// --- Core Models ---

// User represents a business owner account. The user code is the
// opaque key every product, sale and webhook envelope is scoped by.
type User struct {
	ID           string    `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	BusinessName string    `json:"business_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// Product is an item in the store's inventory. CurrentStock never goes
// negative; sales are rejected before that can happen.
type Product struct {
	ID           string     `json:"id"`
	UserCode     string     `json:"user_code"`
	Name         string     `json:"name"`
	SKU          string     `json:"sku"`
	Price        float64    `json:"price"`
	CurrentStock int        `json:"current_stock"`
	Category     string     `json:"category"`
	ReorderLevel int        `json:"reorder_level"`
	LastSold     *time.Time `json:"last_sold,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Sale is a single transaction. Immutable once created; TotalAmount is
// unit price times quantity at the time of sale and is never
// recomputed afterwards.
type Sale struct {
	ID          string    `json:"id"`
	UserCode    string    `json:"user_code"`
	ProductID   string    `json:"product_id"`
	Quantity    int       `json:"quantity"`
	TotalAmount float64   `json:"total_amount"`
	Timestamp   time.Time `json:"timestamp"`
}

// --- API Request Structs ---

// CreateSaleRequest defines the body for recording a sale.
type CreateSaleRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// UpdateProductRequest defines the body for a partial product update.
type UpdateProductRequest struct {
	Name         *string  `json:"name,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	CurrentStock *int     `json:"current_stock,omitempty"`
	Category     *string  `json:"category,omitempty"`
	ReorderLevel *int     `json:"reorder_level,omitempty"`
}

// AssistantRequest defines the body for a chat with the AI assistant.
type AssistantRequest struct {
	Message string `json:"message"`
}

// --- Derived Dashboard Shapes ---

// InventoryStats is recomputed from the product list on every read; it
// is never stored.
type InventoryStats struct {
	TotalItems int             `json:"total_items"`
	LowStock   int             `json:"low_stock"`
	OutOfStock int             `json:"out_of_stock"`
	Categories []CategoryCount `json:"categories"`
}

type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// RestockSuggestion is derived for every product at or below its
// reorder level.
type RestockSuggestion struct {
	ProductID         string `json:"product_id"`
	ProductName       string `json:"product_name"`
	CurrentStock      int    `json:"current_stock"`
	SuggestedQuantity int    `json:"suggested_quantity"`
	Priority          string `json:"priority"`
	Reason            string `json:"reason"`
}
