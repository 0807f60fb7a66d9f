package repository

import (
	"context"

	"github.com/jhoicas/Pescaderia-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
}
