package entity

import (
	"time"

	"github.com/jhoicas/Pescaderia-api/internal/domain/inventory"
)

// Tipos de precio de producto.
const (
	PricingTypeFish = "fish" // se vende entero, medio o en cuartos
	PricingTypeUnit = "unit" // se vende por unidad (un solo pool WHOLE)
)

// Product representa un producto del catálogo mayorista.
// SeparatesQuarters se fija al crear el producto: indica si lomo y ventresca son SKUs distintos.
// TotalStock es un resumen desnormalizado que se recalcula en cada cambio de stock.
type Product struct {
	ID                string
	Name              string
	Description       string
	PricingType       string
	SeparatesQuarters bool
	TotalStock        int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsFish indica si el stock del producto se lleva en granularidades de pescado.
func (p *Product) IsFish() bool { return p.PricingType == PricingTypeFish }

// StockSummary valor de products.total_stock para el vector v: pool de cuartos en pescado,
// unidades en productos por unidad.
func (p *Product) StockSummary(v inventory.StockVector) int {
	if !p.IsFish() {
		return v.Whole
	}
	return inventory.TotalStock(v)
}
