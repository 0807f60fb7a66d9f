package inventory

// Reconciliation resultado detallado de una reconciliación: el vector nuevo y los
// campos que quedaron por debajo de cero y se llevaron a 0.
type Reconciliation struct {
	Vector  StockVector
	Clamped []Granularity
}

// WasClamped indica si algún campo fue recortado a cero.
func (r Reconciliation) WasClamped() bool { return len(r.Clamped) > 0 }

// ReconcileStock calcula el nuevo vector tras aplicar delta unidades en la granularidad g.
// delta > 0 consume stock, delta < 0 lo repone, delta == 0 devuelve current sin cambios.
// Es una función pura: no hace I/O ni guarda estado.
func ReconcileStock(current StockVector, g Granularity, delta int, separated bool) (StockVector, error) {
	r, err := ReconcileStockDetailed(current, g, delta, separated)
	if err != nil {
		return StockVector{}, err
	}
	return r.Vector, nil
}

// ReconcileStockDetailed igual que ReconcileStock pero informa los recortes a cero.
// Los resultados negativos se recortan en lugar de rechazarse; el llamador decide si
// registra o alerta sobre ese recorte.
func ReconcileStockDetailed(current StockVector, g Granularity, delta int, separated bool) (Reconciliation, error) {
	if err := validateInput(current, g, separated); err != nil {
		return Reconciliation{}, err
	}
	if delta == 0 {
		return Reconciliation{Vector: current}, nil
	}

	if delta > MaxQuantity || delta < -MaxQuantity {
		return Reconciliation{}, &QuantityError{Granularity: g, Value: delta}
	}

	c := &clamper{}
	var next StockVector
	switch g {
	case GranularityWhole:
		next = applyWhole(c, current, delta, separated)
	case GranularityHalf:
		next = applyHalf(c, current, delta, separated)
	case GranularityQuarterBack:
		if separated {
			next = applySeparatedQuarter(c, current, delta, GranularityQuarterBack)
		} else {
			next = applyMergedQuarter(c, current, delta)
		}
	case GranularityQuarterBelly:
		next = applySeparatedQuarter(c, current, delta, GranularityQuarterBelly)
	default:
		return Reconciliation{}, &GranularityError{Granularity: g, Separated: separated}
	}
	if err := next.checkBounds(); err != nil {
		return Reconciliation{}, err
	}
	return c.result(next), nil
}

// validateInput se ejecuta antes de cualquier cálculo.
func validateInput(current StockVector, g Granularity, separated bool) error {
	if !g.Valid() {
		return &GranularityError{Granularity: g, Separated: separated}
	}
	// Nunca se infiere un pool de ventresca inexistente.
	if g == GranularityQuarterBelly && !separated {
		return &GranularityError{Granularity: g, Separated: separated}
	}
	return current.Validate(separated)
}

// applyWhole: n enteros = n enteros, 2n medios, 2n de cada cuarto (o 4n cuartos indistintos).
func applyWhole(c *clamper, v StockVector, n int, separated bool) StockVector {
	out := StockVector{
		Whole: c.floor(GranularityWhole, v.Whole-n),
		Half:  c.floor(GranularityHalf, v.Half-2*n),
	}
	if separated {
		out.QuarterBack = c.floor(GranularityQuarterBack, v.QuarterBack-2*n)
		out.QuarterBelly = Some(c.floor(GranularityQuarterBelly, v.QuarterBelly.OrZero()-2*n))
		return out
	}
	out.QuarterBack = c.floor(GranularityQuarterBack, v.QuarterBack-4*n)
	return out
}

// applyHalf: los enteros bajan n/2 redondeando hacia arriba si el conteo de medios previo
// es par y hacia abajo si es impar. Esa asimetría absorbe los medios sueltos acumulados.
func applyHalf(c *clamper, v StockVector, n int, separated bool) StockVector {
	var wholeDelta int
	if v.Half%2 == 0 {
		wholeDelta = ceilDiv2(n)
	} else {
		wholeDelta = floorDiv2(n)
	}
	out := StockVector{
		Whole: c.floor(GranularityWhole, v.Whole-wholeDelta),
		Half:  c.floor(GranularityHalf, v.Half-n),
	}
	if separated {
		out.QuarterBack = c.floor(GranularityQuarterBack, v.QuarterBack-n)
		out.QuarterBelly = Some(c.floor(GranularityQuarterBelly, v.QuarterBelly.OrZero()-n))
		return out
	}
	out.QuarterBack = c.floor(GranularityQuarterBack, v.QuarterBack-2*n)
	return out
}

// applySeparatedQuarter descuenta del pool indicado y reconstruye enteros y medios desde
// min(lomo, ventresca): un entero sólo existe si quedan sus dos cuartos.
func applySeparatedQuarter(c *clamper, v StockVector, n int, pool Granularity) StockVector {
	back := v.QuarterBack
	belly := v.QuarterBelly.OrZero()
	if pool == GranularityQuarterBack {
		back = c.floor(GranularityQuarterBack, back-n)
	} else {
		belly = c.floor(GranularityQuarterBelly, belly-n)
	}
	m := min(back, belly)
	return StockVector{
		Whole:        m / 2,
		Half:         m,
		QuarterBack:  back,
		QuarterBelly: Some(belly),
	}
}

// applyMergedQuarter: un solo pool de cuartos; enteros y medios se reasignan desde él.
func applyMergedQuarter(c *clamper, v StockVector, n int) StockVector {
	back := c.floor(GranularityQuarterBack, v.QuarterBack-n)
	return StockVector{
		Whole:        back / 4,
		Half:         back / 2,
		QuarterBack:  back,
		QuarterBelly: None(),
	}
}
