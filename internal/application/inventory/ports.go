package inventory

import (
	"context"
	"time"

	domaininv "github.com/jhoicas/Pescaderia-api/internal/domain/inventory"
	"github.com/jhoicas/Pescaderia-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de stock: lectura con bloqueo, cálculo, escritura y Commit.
// La implementación puede reintentar fn completa ante conflictos de bloqueo; fn debe ser re-ejecutable.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		orderRepo repository.OrderRepository,
	) error) error
}

// StockSnapshot vista de solo lectura del stock de un producto (pantallas y verificación de disponibilidad).
type StockSnapshot struct {
	ProductID         string                `json:"product_id"`
	PricingType       string                `json:"pricing_type"`
	SeparatesQuarters bool                  `json:"separates_quarters"`
	Vector            domaininv.StockVector `json:"vector"`
	TotalStock        int                   `json:"total_stock"`
}

// StockReader lee snapshots sin bloqueo. Devuelve domain.ErrNotFound si el producto no existe.
type StockReader interface {
	GetSnapshot(ctx context.Context, productID string) (*StockSnapshot, error)
}

// StockCacheInvalidator descarta snapshots cacheados después de un Commit.
type StockCacheInvalidator interface {
	Invalidate(ctx context.Context, productIDs ...string) error
}

// StockChangedEvent evento publicado tras confirmar un cambio de stock.
type StockChangedEvent struct {
	ProductID  string                `json:"product_id"`
	Source     string                `json:"source"`
	Stock      domaininv.StockVector `json:"stock"`
	TotalStock int                   `json:"total_stock"`
	OccurredAt time.Time             `json:"occurred_at"`
}

// StockEventPublisher publica eventos de cambio de stock (RabbitMQ u otro broker).
type StockEventPublisher interface {
	PublishStockChanged(ctx context.Context, evt StockChangedEvent) error
}

// NopInvalidator se usa cuando no hay caché configurada.
type NopInvalidator struct{}

func (NopInvalidator) Invalidate(context.Context, ...string) error { return nil }

// NopPublisher se usa cuando no hay broker configurado.
type NopPublisher struct{}

func (NopPublisher) PublishStockChanged(context.Context, StockChangedEvent) error { return nil }
