package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductVariant una fila por granularidad (unit_type = WHOLE, HALF, QUARTER_BACK, QUARTER_BELLY).
// Quantity es el stock visible de esa granularidad; Price el precio de venta por unidad.
type ProductVariant struct {
	ProductID string
	UnitType  string
	Quantity  int
	Price     decimal.Decimal
	UpdatedAt time.Time
}
