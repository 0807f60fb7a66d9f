package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlaceOrderRequest body para POST /api/orders.
type PlaceOrderRequest struct {
	Items []OrderLineRequest `json:"items"`
}

// OrderLineRequest línea del carrito. LineType "order" descuenta stock; "request" no.
type OrderLineRequest struct {
	ProductID   string `json:"product_id"`
	Granularity string `json:"granularity"`
	Quantity    int    `json:"quantity"`
	LineType    string `json:"line_type"`
}

// OrderItemResponse línea del pedido creado.
type OrderItemResponse struct {
	ProductID   string          `json:"product_id"`
	Granularity string          `json:"granularity"`
	LineType    string          `json:"line_type"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderResponse pedido creado.
type OrderResponse struct {
	ID         string              `json:"id"`
	CustomerID string              `json:"customer_id"`
	Status     string              `json:"status"`
	Total      decimal.Decimal     `json:"total"`
	Items      []OrderItemResponse `json:"items"`
	CreatedAt  time.Time           `json:"created_at"`
}
