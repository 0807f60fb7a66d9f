package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/admin/products.
// Para pricing_type "fish" WholeCount es el número de pescados enteros; medios y cuartos se derivan.
// Para "unit" WholeCount es la cantidad de unidades.
type CreateProductRequest struct {
	Name              string                     `json:"name"`
	Description       string                     `json:"description"`
	PricingType       string                     `json:"pricing_type"`
	SeparatesQuarters bool                       `json:"separates_quarters"`
	WholeCount        int                        `json:"whole_count"`
	Prices            map[string]decimal.Decimal `json:"prices,omitempty"` // por granularidad
}

// UpdateProductRequest body para PUT /api/admin/products/:id (campos opcionales).
// El modo de separación no se puede cambiar; si llega distinto se rechaza.
type UpdateProductRequest struct {
	Name              *string `json:"name,omitempty"`
	Description       *string `json:"description,omitempty"`
	SeparatesQuarters *bool   `json:"separates_quarters,omitempty"`
}

// VariantResponse granularidad con su stock y precio.
type VariantResponse struct {
	UnitType string          `json:"unit_type"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// ProductResponse respuesta con datos del producto.
type ProductResponse struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Description       string            `json:"description"`
	PricingType       string            `json:"pricing_type"`
	SeparatesQuarters bool              `json:"separates_quarters"`
	TotalStock        int               `json:"total_stock"`
	Variants          []VariantResponse `json:"variants,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// ProductListResponse listado paginado.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
