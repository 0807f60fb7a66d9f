package inventory

// BulkReallocate recalcula el vector a partir de una edición manual de varias
// granularidades a la vez (formulario de administración).
//
// Cada campo editado se convierte en un delta contra old y se pasa por la misma cascada
// de ReconcileStock, en orden fijo WHOLE, HALF, QUARTER_BACK, QUARTER_BELLY; cada paso ve
// el vector intermedio del anterior. El resultado depende del orden (no es conmutativo) y
// los campos no editados quedan como los deje la cascada.
func BulkReallocate(old StockVector, edited map[Granularity]int, separated bool) (StockVector, error) {
	r, err := BulkReallocateDetailed(old, edited, separated)
	if err != nil {
		return StockVector{}, err
	}
	return r.Vector, nil
}

// BulkReallocateDetailed igual que BulkReallocate, informando los campos recortados a cero
// en cualquiera de los pasos.
func BulkReallocateDetailed(old StockVector, edited map[Granularity]int, separated bool) (Reconciliation, error) {
	if err := validateEdits(old, edited, separated); err != nil {
		return Reconciliation{}, err
	}

	running := old
	var clamped []Granularity
	for _, g := range reallocationOrder {
		target, ok := edited[g]
		if !ok {
			continue
		}
		prev, _ := old.Get(g)
		// delta positivo = consumo, igual que en una venta.
		r, err := ReconcileStockDetailed(running, g, prev-target, separated)
		if err != nil {
			return Reconciliation{}, err
		}
		running = r.Vector
		clamped = mergeClamped(clamped, r.Clamped)
	}
	return Reconciliation{Vector: running, Clamped: clamped}, nil
}

// validateEdits valida todo antes de aplicar cualquier paso.
func validateEdits(old StockVector, edited map[Granularity]int, separated bool) error {
	for g := range edited {
		if !g.Valid() || (g == GranularityQuarterBelly && !separated) {
			return &GranularityError{Granularity: g, Separated: separated}
		}
	}
	for _, g := range reallocationOrder {
		if value, ok := edited[g]; ok && (value < 0 || value > MaxQuantity) {
			return &QuantityError{Granularity: g, Value: value}
		}
	}
	return old.Validate(separated)
}

func mergeClamped(acc, add []Granularity) []Granularity {
	for _, g := range add {
		dup := false
		for _, seen := range acc {
			if seen == g {
				dup = true
				break
			}
		}
		if !dup {
			acc = append(acc, g)
		}
	}
	return acc
}
