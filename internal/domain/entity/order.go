package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de línea del carrito.
const (
	LineTypeOrder   = "order"   // descuenta stock
	LineTypeRequest = "request" // solicitud/cotización, no toca stock
)

// Estados de pedido.
const (
	OrderStatusPlaced = "placed"
)

// Order pedido de un cliente.
type Order struct {
	ID         string
	CustomerID string
	Status     string
	Total      decimal.Decimal
	Items      []OrderItem
	CreatedAt  time.Time
}

// OrderItem línea de pedido.
type OrderItem struct {
	ID          string
	OrderID     string
	ProductID   string
	Granularity string
	LineType    string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}
