package repository

import (
	"context"

	"github.com/jhoicas/Pescaderia-api/internal/domain/entity"
	"github.com/jhoicas/Pescaderia-api/internal/domain/inventory"
)

// StockRepository define el puerto de lectura/escritura del vector de stock de un producto.
// Cada granularidad se guarda como una fila de product_variants; la implementación mapea
// filas ↔ StockVector. Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	ListVariants(ctx context.Context, productID string) ([]*entity.ProductVariant, error)
	CreateVariants(ctx context.Context, variants []*entity.ProductVariant) error
	GetVector(ctx context.Context, product *entity.Product) (inventory.StockVector, error)
	// GetVectorForUpdate bloquea las filas de variantes (SELECT FOR UPDATE).
	GetVectorForUpdate(ctx context.Context, product *entity.Product) (inventory.StockVector, error)
	// SaveVector escribe cada granularidad y actualiza products.total_stock.
	SaveVector(ctx context.Context, product *entity.Product, v inventory.StockVector) error
}
