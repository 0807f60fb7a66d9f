package repository

import (
	"context"

	"github.com/jhoicas/Pescaderia-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para la auditoría de stock.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error)
}
