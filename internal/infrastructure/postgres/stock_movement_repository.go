package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Pescaderia-api/internal/domain/entity"
	"github.com/jhoicas/Pescaderia-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo auditoría de cambios de stock sobre PostgreSQL (usable con pool o tx).
// Los vectores antes/después se guardan como JSONB.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento de stock.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	before, err := json.Marshal(m.Before)
	if err != nil {
		return fmt.Errorf("encode stock before: %w", err)
	}
	after, err := json.Marshal(m.After)
	if err != nil {
		return fmt.Errorf("encode stock after: %w", err)
	}
	clamped := m.Clamped
	if clamped == nil {
		clamped = []string{}
	}
	query := `
		INSERT INTO stock_movements (id, transaction_id, product_id, source, granularity, delta, stock_before, stock_after, clamped, created_at, created_by)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10, NULLIF($11, ''))`
	_, err = r.q.Exec(ctx, query,
		m.ID, m.TransactionID, m.ProductID, m.Source, m.Granularity, m.Delta,
		string(before), string(after), clamped, m.CreatedAt, m.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// ListByProduct lista movimientos de un producto, más recientes primero.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, transaction_id, product_id, source, COALESCE(granularity, ''), delta,
		       stock_before, stock_after, clamped, created_at, COALESCE(created_by, '')
		FROM stock_movements WHERE product_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var (
			m             entity.StockMovement
			before, after []byte
		)
		if err := rows.Scan(&m.ID, &m.TransactionID, &m.ProductID, &m.Source, &m.Granularity, &m.Delta,
			&before, &after, &m.Clamped, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		if err := json.Unmarshal(before, &m.Before); err != nil {
			return nil, fmt.Errorf("decode stock before: %w", err)
		}
		if err := json.Unmarshal(after, &m.After); err != nil {
			return nil, fmt.Errorf("decode stock after: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
