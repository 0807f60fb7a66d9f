package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Pescaderia-api/internal/domain"
	"github.com/jhoicas/Pescaderia-api/internal/domain/entity"
	"github.com/jhoicas/Pescaderia-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo persistencia de pedidos y sus líneas (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create inserta la cabecera y las líneas. Debe ejecutarse dentro de la tx del pedido.
func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO orders (id, customer_id, status, total, created_at) VALUES ($1, $2, $3, $4, $5)`,
		order.ID, order.CustomerID, order.Status, order.Total, order.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	query := `
		INSERT INTO order_items (id, order_id, product_id, granularity, line_type, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, it := range order.Items {
		if _, err := r.q.Exec(ctx, query,
			it.ID, order.ID, it.ProductID, it.Granularity, it.LineType, it.Quantity, it.UnitPrice, it.Subtotal,
		); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene un pedido con sus líneas. Devuelve nil si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	var o entity.Order
	err := r.q.QueryRow(ctx,
		`SELECT id, customer_id, status, total, created_at FROM orders WHERE id = $1`, id,
	).Scan(&o.ID, &o.CustomerID, &o.Status, &o.Total, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, product_id, granularity, line_type, quantity, unit_price, subtotal
		FROM order_items WHERE order_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Granularity, &it.LineType,
			&it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, it)
	}
	return &o, rows.Err()
}
