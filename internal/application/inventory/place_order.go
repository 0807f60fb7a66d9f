package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pescaderia-api/internal/domain"
	"github.com/jhoicas/Pescaderia-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Pescaderia-api/internal/domain/inventory"
	"github.com/jhoicas/Pescaderia-api/internal/domain/repository"
)

// PlaceOrderUseCase confirma un pedido y descuenta stock de forma transaccional:
// bloquea producto y variantes (SELECT FOR UPDATE), aplica la cascada del motor por cada
// línea tipo "order", guarda el vector, registra auditoría y hace Commit o Rollback.
// Un error en cualquier línea aborta el pedido completo.
type PlaceOrderUseCase struct {
	txRunner  TxRunner
	notifier  stockNotifier
	txTimeout time.Duration
	log       zerolog.Logger
}

// NewPlaceOrderUseCase construye el caso de uso. txTimeout <= 0 deja el contexto del llamador.
func NewPlaceOrderUseCase(
	txRunner TxRunner,
	cache StockCacheInvalidator,
	events StockEventPublisher,
	txTimeout time.Duration,
	log zerolog.Logger,
) *PlaceOrderUseCase {
	return &PlaceOrderUseCase{
		txRunner:  txRunner,
		notifier:  newStockNotifier(cache, events, log),
		txTimeout: txTimeout,
		log:       log,
	}
}

// PlaceOrderInput entrada para confirmar un pedido.
type PlaceOrderInput struct {
	CustomerID string
	Items      []OrderLineInput
}

// OrderLineInput línea del carrito. LineType vacío equivale a "order".
type OrderLineInput struct {
	ProductID   string
	Granularity string
	LineType    string
	Quantity    int
}

type orderLine struct {
	OrderLineInput
	granularity domaininv.Granularity
}

// PlaceOrder valida el carrito, aplica los descuentos de stock y persiste el pedido.
func (uc *PlaceOrderUseCase) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*entity.Order, error) {
	lines, err := parseOrderLines(in)
	if err != nil {
		return nil, err
	}

	// Productos con stock a descontar, en orden de ID para que dos pedidos concurrentes
	// bloqueen filas siempre en el mismo orden.
	stockLines := make(map[string][]int)
	for i, l := range lines {
		if l.LineType == entity.LineTypeOrder {
			stockLines[l.ProductID] = append(stockLines[l.ProductID], i)
		}
	}
	productIDs := make([]string, 0, len(stockLines))
	for id := range stockLines {
		productIDs = append(productIDs, id)
	}
	sort.Strings(productIDs)

	txCtx := ctx
	if uc.txTimeout > 0 {
		var cancel context.CancelFunc
		txCtx, cancel = context.WithTimeout(ctx, uc.txTimeout)
		defer cancel()
	}

	now := time.Now()
	order := &entity.Order{
		ID:         uuid.New().String(),
		CustomerID: in.CustomerID,
		Status:     entity.OrderStatusPlaced,
		CreatedAt:  now,
	}
	var changes []stockChange

	err = uc.txRunner.Run(txCtx, func(
		productRepo repository.ProductRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		orderRepo repository.OrderRepository,
	) error {
		// fn puede re-ejecutarse si el TxRunner reintenta.
		changes = changes[:0]
		products := make(map[string]*entity.Product, len(productIDs))

		for _, pid := range productIDs {
			product, err := productRepo.GetForUpdate(txCtx, pid)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, pid)
			}
			products[pid] = product

			vec, err := stockRepo.GetVectorForUpdate(txCtx, product)
			if err != nil {
				return err
			}
			for _, idx := range stockLines[pid] {
				line := lines[idx]
				r, err := consumeLine(product, vec, line.granularity, line.Quantity)
				if err != nil {
					return err
				}
				if r.WasClamped() {
					logClamp(uc.log, pid, entity.MovementSourceOrder, line.granularity.String(), line.Quantity, r.Clamped)
				}
				mov := &entity.StockMovement{
					ID:            uuid.New().String(),
					TransactionID: order.ID,
					ProductID:     pid,
					Source:        entity.MovementSourceOrder,
					Granularity:   line.granularity.String(),
					Delta:         line.Quantity,
					Before:        vec,
					After:         r.Vector,
					Clamped:       granularityNames(r.Clamped),
					CreatedAt:     now,
					CreatedBy:     in.CustomerID,
				}
				if err := movRepo.Create(txCtx, mov); err != nil {
					return err
				}
				vec = r.Vector
			}
			if err := stockRepo.SaveVector(txCtx, product, vec); err != nil {
				return err
			}
			changes = append(changes, stockChange{productID: pid, vector: vec, totalStock: product.StockSummary(vec)})
		}

		items, total, err := priceLines(txCtx, productRepo, stockRepo, products, lines, order.ID)
		if err != nil {
			return err
		}
		order.Items = items
		order.Total = total
		return orderRepo.Create(txCtx, order)
	})
	if err != nil {
		uc.log.Info().Err(err).Str("customer_id", in.CustomerID).Msg("pedido rechazado")
		return nil, err
	}

	uc.log.Info().
		Str("order_id", order.ID).
		Str("customer_id", in.CustomerID).
		Int("items", len(order.Items)).
		Str("total", order.Total.String()).
		Msg("pedido confirmado")
	uc.notifier.afterCommit(ctx, entity.MovementSourceOrder, changes)
	return order, nil
}

func parseOrderLines(in PlaceOrderInput) ([]orderLine, error) {
	if in.CustomerID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	lines := make([]orderLine, 0, len(in.Items))
	for _, it := range in.Items {
		if it.ProductID == "" || it.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		if it.LineType == "" {
			it.LineType = entity.LineTypeOrder
		}
		if it.LineType != entity.LineTypeOrder && it.LineType != entity.LineTypeRequest {
			return nil, domain.ErrInvalidInput
		}
		g, err := domaininv.ParseGranularity(it.Granularity)
		if err != nil {
			return nil, err
		}
		lines = append(lines, orderLine{OrderLineInput: it, granularity: g})
	}
	return lines, nil
}

// consumeLine descuenta qty unidades de granularidad g del vector actual.
// Productos por unidad usan solo el pool WHOLE con resta simple.
func consumeLine(product *entity.Product, vec domaininv.StockVector, g domaininv.Granularity, qty int) (domaininv.Reconciliation, error) {
	if !product.IsFish() {
		if g != domaininv.GranularityWhole {
			return domaininv.Reconciliation{}, &domaininv.GranularityError{Granularity: g}
		}
		if vec.Whole < qty {
			return domaininv.Reconciliation{}, fmt.Errorf("%w: producto %s", domain.ErrInsufficientStock, product.ID)
		}
		vec.Whole -= qty
		return domaininv.Reconciliation{Vector: vec}, nil
	}
	// Si la granularidad no existe en el vector, el motor devuelve el error adecuado.
	if available, ok := vec.Get(g); ok && available < qty {
		return domaininv.Reconciliation{}, fmt.Errorf("%w: producto %s %s disponible %d",
			domain.ErrInsufficientStock, product.ID, g, available)
	}
	return domaininv.ReconcileStockDetailed(vec, g, qty, product.SeparatesQuarters)
}

// priceLines arma las líneas del pedido con el precio de la variante correspondiente.
// Las líneas tipo "request" solo exigen que el producto exista.
func priceLines(
	ctx context.Context,
	productRepo repository.ProductRepository,
	stockRepo repository.StockRepository,
	products map[string]*entity.Product,
	lines []orderLine,
	orderID string,
) ([]entity.OrderItem, decimal.Decimal, error) {
	prices := make(map[string]map[string]decimal.Decimal)
	items := make([]entity.OrderItem, 0, len(lines))
	total := decimal.Zero

	for _, l := range lines {
		if _, ok := products[l.ProductID]; !ok {
			p, err := productRepo.GetByID(ctx, l.ProductID)
			if err != nil {
				return nil, decimal.Zero, err
			}
			if p == nil {
				return nil, decimal.Zero, fmt.Errorf("%w: producto %s", domain.ErrNotFound, l.ProductID)
			}
			products[l.ProductID] = p
		}
		byUnit, ok := prices[l.ProductID]
		if !ok {
			variants, err := stockRepo.ListVariants(ctx, l.ProductID)
			if err != nil {
				return nil, decimal.Zero, err
			}
			byUnit = make(map[string]decimal.Decimal, len(variants))
			for _, v := range variants {
				byUnit[v.UnitType] = v.Price
			}
			prices[l.ProductID] = byUnit
		}
		unitPrice := byUnit[l.granularity.String()]
		subtotal := unitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
		items = append(items, entity.OrderItem{
			ID:          uuid.New().String(),
			OrderID:     orderID,
			ProductID:   l.ProductID,
			Granularity: l.granularity.String(),
			LineType:    l.LineType,
			Quantity:    l.Quantity,
			UnitPrice:   unitPrice,
			Subtotal:    subtotal,
		})
		total = total.Add(subtotal)
	}
	return items, total, nil
}
