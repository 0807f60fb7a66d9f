package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Pescaderia-api/internal/application/dto"
	"github.com/jhoicas/Pescaderia-api/internal/domain"
	"github.com/jhoicas/Pescaderia-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Pescaderia-api/internal/domain/inventory"
	"github.com/jhoicas/Pescaderia-api/internal/domain/repository"
)

// AdjustStockUseCase aplica la edición manual de stock desde la consola de administración
// (BulkReallocate) con el mismo esquema transaccional que los pedidos.
type AdjustStockUseCase struct {
	txRunner TxRunner
	notifier stockNotifier
	log      zerolog.Logger
}

// NewAdjustStockUseCase construye el caso de uso.
func NewAdjustStockUseCase(
	txRunner TxRunner,
	cache StockCacheInvalidator,
	events StockEventPublisher,
	log zerolog.Logger,
) *AdjustStockUseCase {
	return &AdjustStockUseCase{
		txRunner: txRunner,
		notifier: newStockNotifier(cache, events, log),
		log:      log,
	}
}

// AdjustStockInput nuevos valores visibles por granularidad (claves WHOLE, HALF, ...).
type AdjustStockInput struct {
	ProductID  string
	OperatorID string
	Quantities map[string]int
}

// AdjustStock bloquea el vector, lo recalcula y lo guarda. Devuelve el vector resultante.
func (uc *AdjustStockUseCase) AdjustStock(ctx context.Context, in AdjustStockInput) (*dto.StockResponse, error) {
	if in.ProductID == "" || len(in.Quantities) == 0 {
		return nil, domain.ErrInvalidInput
	}
	edits := make(map[domaininv.Granularity]int, len(in.Quantities))
	for name, value := range in.Quantities {
		g, err := domaininv.ParseGranularity(name)
		if err != nil {
			return nil, err
		}
		edits[g] = value
	}

	var (
		product *entity.Product
		result  domaininv.Reconciliation
	)
	now := time.Now()
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		_ repository.OrderRepository,
	) error {
		var err error
		product, err = productRepo.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
		}
		old, err := stockRepo.GetVectorForUpdate(ctx, product)
		if err != nil {
			return err
		}
		if product.IsFish() {
			result, err = domaininv.BulkReallocateDetailed(old, edits, product.SeparatesQuarters)
		} else {
			result, err = setUnitStock(old, edits)
		}
		if err != nil {
			return err
		}
		if err := stockRepo.SaveVector(ctx, product, result.Vector); err != nil {
			return err
		}
		return movRepo.Create(ctx, &entity.StockMovement{
			ID:            uuid.New().String(),
			TransactionID: uuid.New().String(),
			ProductID:     product.ID,
			Source:        entity.MovementSourceAdmin,
			Before:        old,
			After:         result.Vector,
			Clamped:       granularityNames(result.Clamped),
			CreatedAt:     now,
			CreatedBy:     in.OperatorID,
		})
	})
	if err != nil {
		return nil, err
	}

	total := product.StockSummary(result.Vector)
	if result.WasClamped() {
		logClamp(uc.log, product.ID, entity.MovementSourceAdmin, "BULK", 0, result.Clamped)
	}
	uc.log.Info().
		Str("product_id", product.ID).
		Str("operator_id", in.OperatorID).
		Int("total_stock", total).
		Msg("stock ajustado")
	uc.notifier.afterCommit(ctx, entity.MovementSourceAdmin, []stockChange{{productID: product.ID, vector: result.Vector, totalStock: total}})

	return &dto.StockResponse{
		ProductID:         product.ID,
		PricingType:       product.PricingType,
		SeparatesQuarters: product.SeparatesQuarters,
		Stock:             result.Vector,
		TotalStock:        total,
		Clamped:           granularityNames(result.Clamped),
	}, nil
}

// setUnitStock productos por unidad: solo existe el pool WHOLE y se asigna directamente.
func setUnitStock(old domaininv.StockVector, edits map[domaininv.Granularity]int) (domaininv.Reconciliation, error) {
	for g, value := range edits {
		if g != domaininv.GranularityWhole {
			return domaininv.Reconciliation{}, &domaininv.GranularityError{Granularity: g}
		}
		if value < 0 || value > domaininv.MaxQuantity {
			return domaininv.Reconciliation{}, &domaininv.QuantityError{Granularity: g, Value: value}
		}
		old.Whole = value
	}
	return domaininv.Reconciliation{Vector: old}, nil
}
