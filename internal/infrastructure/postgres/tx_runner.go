package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Pescaderia-api/internal/application/inventory"
	"github.com/jhoicas/Pescaderia-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

const retryBackoff = 20 * time.Millisecond

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Si la tx falla por deadlock, serialización o lock_timeout la repite completa hasta maxRetries veces.
type TxRunner struct {
	pool       *pgxpool.Pool
	maxRetries int
	log        zerolog.Logger
}

// NewTxRunner construye el runner con el pool. maxRetries < 0 se trata como 0.
func NewTxRunner(pool *pgxpool.Pool, maxRetries int, log zerolog.Logger) *TxRunner {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &TxRunner{pool: pool, maxRetries: maxRetries, log: log}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	orderRepo repository.OrderRepository,
) error) error {
	return r.retry(ctx, func() error { return r.runOnce(ctx, fn) })
}

// retry repite attempt mientras falle con un error reintentable y quede presupuesto.
// La espera entre intentos crece linealmente y se corta si ctx termina.
func (r *TxRunner) retry(ctx context.Context, attempt func() error) error {
	for n := 0; ; n++ {
		err := attempt()
		if err == nil || !isRetryable(err) || n >= r.maxRetries {
			return err
		}
		r.log.Warn().Err(err).Int("attempt", n+1).Msg("conflicto de bloqueo, reintentando transacción")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(n+1) * retryBackoff):
		}
	}
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	orderRepo repository.OrderRepository,
) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	productRepo := NewProductRepository(tx)
	stockRepo := NewStockRepository(tx)
	movRepo := NewStockMovementRepository(tx)
	orderRepo := NewOrderRepository(tx)

	if err := fn(productRepo, stockRepo, movRepo, orderRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
