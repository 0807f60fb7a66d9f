package repository

import (
	"context"

	"github.com/jhoicas/Pescaderia-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para pedidos y sus líneas.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
}
