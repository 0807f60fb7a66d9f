package postgres

import (
	"context"
	"fmt"
	"math"

	"github.com/jhoicas/Pescaderia-api/internal/domain"
	"github.com/jhoicas/Pescaderia-api/internal/domain/entity"
	"github.com/jhoicas/Pescaderia-api/internal/domain/inventory"
	"github.com/jhoicas/Pescaderia-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
// El vector se guarda como una fila de product_variants por granularidad.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// ListVariants devuelve las filas de variantes del producto.
func (r *StockRepo) ListVariants(ctx context.Context, productID string) ([]*entity.ProductVariant, error) {
	return r.listVariants(ctx, productID, false)
}

// CreateVariants inserta las filas iniciales de variantes (alta de producto).
func (r *StockRepo) CreateVariants(ctx context.Context, variants []*entity.ProductVariant) error {
	query := `
		INSERT INTO product_variants (product_id, unit_type, quantity, price, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	for _, v := range variants {
		if _, err := r.q.Exec(ctx, query, v.ProductID, v.UnitType, v.Quantity, v.Price, v.UpdatedAt); err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("insert product variant: %w", err)
		}
	}
	return nil
}

// GetVector lee el vector de stock sin bloquear filas.
func (r *StockRepo) GetVector(ctx context.Context, product *entity.Product) (inventory.StockVector, error) {
	variants, err := r.listVariants(ctx, product.ID, false)
	if err != nil {
		return inventory.StockVector{}, err
	}
	return VectorFromVariants(product, variants)
}

// GetVectorForUpdate lee el vector bloqueando las filas de variantes (SELECT FOR UPDATE).
func (r *StockRepo) GetVectorForUpdate(ctx context.Context, product *entity.Product) (inventory.StockVector, error) {
	variants, err := r.listVariants(ctx, product.ID, true)
	if err != nil {
		return inventory.StockVector{}, err
	}
	return VectorFromVariants(product, variants)
}

// SaveVector escribe la cantidad de cada granularidad presente y recalcula products.total_stock.
func (r *StockRepo) SaveVector(ctx context.Context, product *entity.Product, v inventory.StockVector) error {
	unitTypes, quantities, err := variantsFromVector(product, v)
	if err != nil {
		return fmt.Errorf("save stock vector %s: %w", product.ID, err)
	}
	query := `
		INSERT INTO product_variants (product_id, unit_type, quantity, updated_at)
		SELECT $1, u.unit_type, u.quantity, now()
		FROM unnest($2::text[], $3::int[]) AS u(unit_type, quantity)
		ON CONFLICT (product_id, unit_type)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, product.ID, unitTypes, quantities); err != nil {
		return fmt.Errorf("save stock vector: %w", err)
	}
	if _, err := r.q.Exec(ctx,
		`UPDATE products SET total_stock = $2, updated_at = now() WHERE id = $1`,
		product.ID, product.StockSummary(v),
	); err != nil {
		return fmt.Errorf("update total stock: %w", err)
	}
	return nil
}

func (r *StockRepo) listVariants(ctx context.Context, productID string, forUpdate bool) ([]*entity.ProductVariant, error) {
	query := `
		SELECT product_id, unit_type, quantity, price, updated_at
		FROM product_variants WHERE product_id = $1 ORDER BY unit_type`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list product variants: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductVariant
	for rows.Next() {
		var v entity.ProductVariant
		if err := rows.Scan(&v.ProductID, &v.UnitType, &v.Quantity, &v.Price, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product variant: %w", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}

// VectorFromVariants arma el StockVector a partir de las filas de variantes.
// Una fila QUARTER_BELLY se refleja tal cual aunque el producto no separe cuartos: la
// validación del motor la rechaza después como estado inconsistente.
func VectorFromVariants(product *entity.Product, variants []*entity.ProductVariant) (inventory.StockVector, error) {
	var (
		v    inventory.StockVector
		seen = make(map[inventory.Granularity]bool, len(variants))
	)
	for _, row := range variants {
		g, err := inventory.ParseGranularity(row.UnitType)
		if err != nil {
			return inventory.StockVector{}, &inventory.StateError{
				Reason: fmt.Sprintf("producto %s: variante desconocida %q", product.ID, row.UnitType),
			}
		}
		seen[g] = true
		switch g {
		case inventory.GranularityWhole:
			v.Whole = row.Quantity
		case inventory.GranularityHalf:
			v.Half = row.Quantity
		case inventory.GranularityQuarterBack:
			v.QuarterBack = row.Quantity
		case inventory.GranularityQuarterBelly:
			v.QuarterBelly = inventory.Some(row.Quantity)
		}
	}

	required := []inventory.Granularity{inventory.GranularityWhole}
	if product.IsFish() {
		required = append(required, inventory.GranularityHalf, inventory.GranularityQuarterBack)
		if product.SeparatesQuarters {
			required = append(required, inventory.GranularityQuarterBelly)
		}
	}
	for _, g := range required {
		if !seen[g] {
			return inventory.StockVector{}, &inventory.StateError{
				Reason: fmt.Sprintf("producto %s: falta la variante %s", product.ID, g),
			}
		}
	}
	return v, nil
}

// variantsFromVector columnas (unit_type, quantity) a escribir para el vector.
// Una cantidad fuera del rango de INTEGER es un error, nunca se trunca.
func variantsFromVector(product *entity.Product, v inventory.StockVector) ([]string, []int32, error) {
	grans := []inventory.Granularity{inventory.GranularityWhole}
	if product.IsFish() {
		grans = append(grans, inventory.GranularityHalf, inventory.GranularityQuarterBack)
		if v.QuarterBelly.IsPresent() {
			grans = append(grans, inventory.GranularityQuarterBelly)
		}
	}
	unitTypes := make([]string, 0, len(grans))
	quantities := make([]int32, 0, len(grans))
	for _, g := range grans {
		n, _ := v.Get(g)
		if n < 0 || n > math.MaxInt32 {
			return nil, nil, &inventory.QuantityError{Granularity: g, Value: n}
		}
		unitTypes = append(unitTypes, g.String())
		quantities = append(quantities, int32(n))
	}
	return unitTypes, quantities, nil
}
