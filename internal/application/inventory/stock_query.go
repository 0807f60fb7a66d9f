package inventory

import (
	"context"

	"github.com/jhoicas/Pescaderia-api/internal/application/dto"
	"github.com/jhoicas/Pescaderia-api/internal/domain"
	"github.com/jhoicas/Pescaderia-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Pescaderia-api/internal/domain/inventory"
)

// StockQueryUseCase lecturas de stock para pantallas y verificación de disponibilidad.
// No bloquea filas: el resultado es orientativo y el pedido vuelve a verificar dentro de la tx.
type StockQueryUseCase struct {
	reader StockReader
}

// NewStockQueryUseCase construye el caso de uso (reader puede ser la caché o Postgres directo).
func NewStockQueryUseCase(reader StockReader) *StockQueryUseCase {
	return &StockQueryUseCase{reader: reader}
}

// GetStock devuelve el vector actual del producto.
func (uc *StockQueryUseCase) GetStock(ctx context.Context, productID string) (*dto.StockResponse, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	snap, err := uc.reader.GetSnapshot(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &dto.StockResponse{
		ProductID:         snap.ProductID,
		PricingType:       snap.PricingType,
		SeparatesQuarters: snap.SeparatesQuarters,
		Stock:             snap.Vector,
		TotalStock:        snap.TotalStock,
	}, nil
}

// CheckAvailability indica si hay qty unidades disponibles en la granularidad pedida.
func (uc *StockQueryUseCase) CheckAvailability(ctx context.Context, productID, granularity string, qty int) (*dto.AvailabilityResponse, error) {
	if productID == "" || qty <= 0 {
		return nil, domain.ErrInvalidInput
	}
	g, err := domaininv.ParseGranularity(granularity)
	if err != nil {
		return nil, err
	}
	snap, err := uc.reader.GetSnapshot(ctx, productID)
	if err != nil {
		return nil, err
	}
	separated := snap.SeparatesQuarters
	if snap.PricingType != entity.PricingTypeFish && g != domaininv.GranularityWhole {
		return nil, &domaininv.GranularityError{Granularity: g}
	}
	if g == domaininv.GranularityQuarterBelly && !separated {
		return nil, &domaininv.GranularityError{Granularity: g, Separated: separated}
	}
	available, _ := snap.Vector.Get(g)
	return &dto.AvailabilityResponse{
		ProductID:   productID,
		Granularity: g.String(),
		Requested:   qty,
		Available:   available,
		InStock:     available >= qty,
	}, nil
}
