package dto

import "github.com/jhoicas/Pescaderia-api/internal/domain/inventory"

// AdjustStockRequest body para PUT /api/admin/products/:id/stock.
// Claves: WHOLE, HALF, QUARTER_BACK, QUARTER_BELLY; valores: nuevo stock visible.
type AdjustStockRequest struct {
	Quantities map[string]int `json:"quantities"`
}

// StockResponse vector de stock de un producto.
type StockResponse struct {
	ProductID         string                `json:"product_id"`
	PricingType       string                `json:"pricing_type"`
	SeparatesQuarters bool                  `json:"separates_quarters"`
	Stock             inventory.StockVector `json:"stock"`
	TotalStock        int                   `json:"total_stock"`
	Clamped           []string              `json:"clamped,omitempty"` // campos recortados a cero en la última edición
}

// AvailabilityResponse respuesta de GET /api/products/:id/availability.
type AvailabilityResponse struct {
	ProductID   string `json:"product_id"`
	Granularity string `json:"granularity"`
	Requested   int    `json:"requested"`
	Available   int    `json:"available"`
	InStock     bool   `json:"in_stock"`
}
