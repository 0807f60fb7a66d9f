package usecase

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pescaderia-api/internal/application/dto"
	"github.com/jhoicas/Pescaderia-api/internal/application/inventory"
	"github.com/jhoicas/Pescaderia-api/internal/domain"
	"github.com/jhoicas/Pescaderia-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Pescaderia-api/internal/domain/inventory"
	"github.com/jhoicas/Pescaderia-api/internal/domain/repository"
)

// ProductUseCase alta y consulta de productos. El stock se modifica sólo vía pedidos o ajuste de stock.
type ProductUseCase struct {
	txRunner    inventory.TxRunner
	productRepo repository.ProductRepository
	stockRepo   repository.StockRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	txRunner inventory.TxRunner,
	productRepo repository.ProductRepository,
	stockRepo repository.StockRepository,
) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, productRepo: productRepo, stockRepo: stockRepo}
}

// Create crea el producto junto con sus variantes y el stock inicial.
// Para pescado, medios y cuartos se derivan de WholeCount (2× y 4×).
func (uc *ProductUseCase) Create(ctx context.Context, operatorID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.PricingType == "" {
		in.PricingType = entity.PricingTypeFish
	}
	var (
		vector domaininv.StockVector
		err    error
	)
	switch in.PricingType {
	case entity.PricingTypeFish:
		vector, err = domaininv.NewFishStock(in.WholeCount, in.SeparatesQuarters)
		if err != nil {
			return nil, err
		}
	case entity.PricingTypeUnit:
		if in.SeparatesQuarters {
			return nil, domain.ErrInvalidInput
		}
		if in.WholeCount < 0 || in.WholeCount > domaininv.MaxQuantity {
			return nil, &domaininv.QuantityError{Granularity: domaininv.GranularityWhole, Value: in.WholeCount}
		}
		vector = domaininv.StockVector{Whole: in.WholeCount}
	default:
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	product := &entity.Product{
		ID:                uuid.New().String(),
		Name:              in.Name,
		Description:       in.Description,
		PricingType:       in.PricingType,
		SeparatesQuarters: in.SeparatesQuarters,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	product.TotalStock = product.StockSummary(vector)
	prices, err := parsePrices(in.Prices, product)
	if err != nil {
		return nil, err
	}
	variants := buildVariants(product, vector, prices, now)

	err = uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		_ repository.OrderRepository,
	) error {
		if err := productRepo.Create(ctx, product); err != nil {
			return err
		}
		if err := stockRepo.CreateVariants(ctx, variants); err != nil {
			return err
		}
		return movRepo.Create(ctx, &entity.StockMovement{
			ID:            uuid.New().String(),
			TransactionID: product.ID,
			ProductID:     product.ID,
			Source:        entity.MovementSourceCreate,
			After:         vector,
			CreatedAt:     now,
			CreatedBy:     operatorID,
		})
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product, variants), nil
}

// GetByID obtiene un producto con sus variantes. Devuelve nil si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	variants, err := uc.stockRepo.ListVariants(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product, variants), nil
}

// Update actualiza nombre y descripción. El modo de separación es fijo desde la creación.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.SeparatesQuarters != nil && *in.SeparatesQuarters != product.SeparatesQuarters {
		return nil, &domaininv.StateError{Reason: "el modo de separación no se puede cambiar después de crear el producto"}
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product, nil), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, limit, offset int) (*dto.ProductListResponse, error) {
	page := dto.PageRequest{Limit: limit, Offset: offset}
	page.DefaultPage()
	list, err := uc.productRepo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p, nil))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// productGranularities granularidades que existen para el producto (una fila de variante por cada una).
func productGranularities(p *entity.Product) []domaininv.Granularity {
	if !p.IsFish() {
		return []domaininv.Granularity{domaininv.GranularityWhole}
	}
	grans := domaininv.Granularities()
	if !p.SeparatesQuarters {
		return grans[:3]
	}
	return grans
}

// parsePrices valida que cada clave sea una granularidad del producto.
func parsePrices(raw map[string]decimal.Decimal, p *entity.Product) (map[domaininv.Granularity]decimal.Decimal, error) {
	allowed := productGranularities(p)
	out := make(map[domaininv.Granularity]decimal.Decimal, len(raw))
	for name, price := range raw {
		g, err := domaininv.ParseGranularity(name)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(allowed, g) {
			return nil, &domaininv.GranularityError{Granularity: g, Separated: p.SeparatesQuarters}
		}
		if price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		out[g] = price
	}
	return out, nil
}

func buildVariants(p *entity.Product, vector domaininv.StockVector, prices map[domaininv.Granularity]decimal.Decimal, now time.Time) []*entity.ProductVariant {
	grans := productGranularities(p)
	variants := make([]*entity.ProductVariant, 0, len(grans))
	for _, g := range grans {
		qty, _ := vector.Get(g)
		variants = append(variants, &entity.ProductVariant{
			ProductID: p.ID,
			UnitType:  g.String(),
			Quantity:  qty,
			Price:     prices[g],
			UpdatedAt: now,
		})
	}
	return variants
}

func toProductResponse(p *entity.Product, variants []*entity.ProductVariant) *dto.ProductResponse {
	out := &dto.ProductResponse{
		ID:                p.ID,
		Name:              p.Name,
		Description:       p.Description,
		PricingType:       p.PricingType,
		SeparatesQuarters: p.SeparatesQuarters,
		TotalStock:        p.TotalStock,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	for _, v := range variants {
		out.Variants = append(out.Variants, dto.VariantResponse{UnitType: v.UnitType, Quantity: v.Quantity, Price: v.Price})
	}
	return out
}
