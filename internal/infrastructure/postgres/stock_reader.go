package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Pescaderia-api/internal/application/inventory"
	"github.com/jhoicas/Pescaderia-api/internal/domain"
)

var _ inventory.StockReader = (*StockReader)(nil)

// StockReader lectura sin bloqueo del vector (fuente de la caché de stock).
type StockReader struct {
	products *ProductRepo
	stock    *StockRepo
}

// NewStockReader construye el lector sobre el pool.
func NewStockReader(pool *pgxpool.Pool) *StockReader {
	return &StockReader{products: NewProductRepository(pool), stock: NewStockRepository(pool)}
}

// GetSnapshot devuelve el vector actual o domain.ErrNotFound.
func (r *StockReader) GetSnapshot(ctx context.Context, productID string) (*inventory.StockSnapshot, error) {
	product, err := r.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	vec, err := r.stock.GetVector(ctx, product)
	if err != nil {
		return nil, err
	}
	return &inventory.StockSnapshot{
		ProductID:         product.ID,
		PricingType:       product.PricingType,
		SeparatesQuarters: product.SeparatesQuarters,
		Vector:            vec,
		TotalStock:        product.StockSummary(vec),
	}, nil
}
