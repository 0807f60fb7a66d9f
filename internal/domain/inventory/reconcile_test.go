package inventory_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pescaderia-api/internal/domain"
	"github.com/jhoicas/Pescaderia-api/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func separatedVec(whole, half, back, belly int) inventory.StockVector {
	return inventory.StockVector{Whole: whole, Half: half, QuarterBack: back, QuarterBelly: inventory.Some(belly)}
}

func mergedVec(whole, half, quarters int) inventory.StockVector {
	return inventory.StockVector{Whole: whole, Half: half, QuarterBack: quarters, QuarterBelly: inventory.None()}
}

func validCombos() []struct {
	g         inventory.Granularity
	separated bool
} {
	return []struct {
		g         inventory.Granularity
		separated bool
	}{
		{inventory.GranularityWhole, true},
		{inventory.GranularityHalf, true},
		{inventory.GranularityQuarterBack, true},
		{inventory.GranularityQuarterBelly, true},
		{inventory.GranularityWhole, false},
		{inventory.GranularityHalf, false},
		{inventory.GranularityQuarterBack, false},
	}
}

func assertGreaterOrEqualVec(t *testing.T, got, base inventory.StockVector, msgAndArgs ...any) {
	t.Helper()
	assert.GreaterOrEqual(t, got.Whole, base.Whole, msgAndArgs...)
	assert.GreaterOrEqual(t, got.Half, base.Half, msgAndArgs...)
	assert.GreaterOrEqual(t, got.QuarterBack, base.QuarterBack, msgAndArgs...)
	assert.GreaterOrEqual(t, got.QuarterBelly.OrZero(), base.QuarterBelly.OrZero(), msgAndArgs...)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cascada por granularidad (fixtures literales)
// ──────────────────────────────────────────────────────────────────────────────

func TestReconcileStock_WholeSeparado_ConservaPescado(t *testing.T) {
	got, err := inventory.ReconcileStock(separatedVec(10, 20, 20, 20), inventory.GranularityWhole, 3, true)
	require.NoError(t, err)
	assert.Equal(t, separatedVec(7, 14, 14, 14), got,
		"vender 3 enteros descuenta 3 enteros, 6 medios y 6 de cada cuarto")
}

func TestReconcileStock_WholeSinSeparar(t *testing.T) {
	got, err := inventory.ReconcileStock(mergedVec(10, 20, 40), inventory.GranularityWhole, 2, false)
	require.NoError(t, err)
	assert.Equal(t, mergedVec(8, 16, 32), got)
}

func TestReconcileStock_HalfConteoPar_RedondeaArriba(t *testing.T) {
	got, err := inventory.ReconcileStock(separatedVec(10, 20, 20, 20), inventory.GranularityHalf, 1, true)
	require.NoError(t, err)
	assert.Equal(t, 9, got.Whole, "con 20 medios (par) el entero baja ceil(1/2)=1")
	assert.Equal(t, separatedVec(9, 19, 19, 19), got)
}

func TestReconcileStock_HalfConteoImpar_RedondeaAbajo(t *testing.T) {
	got, err := inventory.ReconcileStock(separatedVec(10, 21, 21, 21), inventory.GranularityHalf, 1, true)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Whole, "con 21 medios (impar) el entero baja floor(1/2)=0")
	assert.Equal(t, separatedVec(10, 20, 20, 20), got)
}

func TestReconcileStock_HalfSinSeparar(t *testing.T) {
	got, err := inventory.ReconcileStock(mergedVec(10, 20, 40), inventory.GranularityHalf, 3, false)
	require.NoError(t, err)
	assert.Equal(t, mergedVec(8, 17, 34), got, "3 medios = ceil(3/2)=2 enteros y 6 cuartos")
}

func TestReconcileStock_QuarterBack_ReensamblaDesdeMinimo(t *testing.T) {
	got, err := inventory.ReconcileStock(separatedVec(10, 20, 21, 20), inventory.GranularityQuarterBack, 5, true)
	require.NoError(t, err)
	assert.Equal(t, separatedVec(8, 16, 16, 20), got, "min(16,20)=16 ⇒ half=16, whole=8")
}

func TestReconcileStock_QuarterBelly_Espejo(t *testing.T) {
	got, err := inventory.ReconcileStock(separatedVec(10, 20, 20, 21), inventory.GranularityQuarterBelly, 5, true)
	require.NoError(t, err)
	assert.Equal(t, separatedVec(8, 16, 20, 16), got)
}

func TestReconcileStock_QuarterSinSeparar(t *testing.T) {
	got, err := inventory.ReconcileStock(mergedVec(10, 20, 40), inventory.GranularityQuarterBack, 7, false)
	require.NoError(t, err)
	assert.Equal(t, mergedVec(8, 16, 33), got, "back=33, half=floor(33/2)=16, whole=floor(33/4)=8")
}

func TestReconcileStock_PoolAgotado_AnulaEnterosYMedios(t *testing.T) {
	got, err := inventory.ReconcileStock(separatedVec(5, 10, 3, 10), inventory.GranularityQuarterBack, 3, true)
	require.NoError(t, err)
	assert.Equal(t, separatedVec(0, 0, 0, 10), got,
		"sin lomo no puede quedar ningún entero ni medio")
}

func TestReconcileStock_ReposicionWhole(t *testing.T) {
	got, err := inventory.ReconcileStock(separatedVec(7, 14, 14, 14), inventory.GranularityWhole, -3, true)
	require.NoError(t, err)
	assert.Equal(t, separatedVec(10, 20, 20, 20), got)
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedades
// ──────────────────────────────────────────────────────────────────────────────

func TestReconcileStock_DeltaCero_DevuelveMismoVector(t *testing.T) {
	for _, c := range validCombos() {
		v := mergedVec(3, 7, 13)
		if c.separated {
			v = separatedVec(3, 7, 5, 9)
		}
		got, err := inventory.ReconcileStock(v, c.g, 0, c.separated)
		require.NoError(t, err)
		assert.Equal(t, v, got, "delta 0 en %s (separado=%v) no debe cambiar nada", c.g, c.separated)
	}
}

func TestReconcileStock_NuncaNegativo(t *testing.T) {
	starts := []inventory.StockVector{
		separatedVec(0, 0, 0, 0), separatedVec(1, 2, 2, 2), separatedVec(3, 5, 1, 7),
		mergedVec(0, 0, 0), mergedVec(1, 3, 3), mergedVec(4, 8, 16),
	}
	for _, v := range starts {
		separated := v.QuarterBelly.IsPresent()
		for _, c := range validCombos() {
			if c.separated != separated {
				continue
			}
			for delta := -5; delta <= 40; delta++ {
				got, err := inventory.ReconcileStock(v, c.g, delta, separated)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, got.Whole, 0)
				assert.GreaterOrEqual(t, got.Half, 0)
				assert.GreaterOrEqual(t, got.QuarterBack, 0)
				assert.GreaterOrEqual(t, got.QuarterBelly.OrZero(), 0)
				assert.Equal(t, separated, got.QuarterBelly.IsPresent(), "la forma del vector se conserva")
			}
		}
	}
}

func TestReconcileStock_ReposicionSimetrica(t *testing.T) {
	for _, c := range validCombos() {
		for whole := 0; whole <= 6; whole++ {
			start, err := inventory.NewFishStock(whole, c.separated)
			require.NoError(t, err)
			for n := 1; n <= 10; n++ {
				sold, err := inventory.ReconcileStockDetailed(start, c.g, n, c.separated)
				require.NoError(t, err)
				restored, err := inventory.ReconcileStockDetailed(sold.Vector, c.g, -n, c.separated)
				require.NoError(t, err)

				assertGreaterOrEqualVec(t, restored.Vector, start, "%s n=%d whole=%d", c.g, n, whole)
				if !sold.WasClamped() && c.g != inventory.GranularityQuarterBack && c.g != inventory.GranularityQuarterBelly {
					assert.Equal(t, start, restored.Vector, "sin recortes la reposición es exacta")
				}
			}
		}
	}
}

func TestReconcileStockDetailed_InformaRecortes(t *testing.T) {
	r, err := inventory.ReconcileStockDetailed(separatedVec(1, 2, 2, 2), inventory.GranularityWhole, 3, true)
	require.NoError(t, err)
	assert.Equal(t, separatedVec(0, 0, 0, 0), r.Vector)
	assert.True(t, r.WasClamped())
	assert.ElementsMatch(t, []inventory.Granularity{
		inventory.GranularityWhole, inventory.GranularityHalf,
		inventory.GranularityQuarterBack, inventory.GranularityQuarterBelly,
	}, r.Clamped)

	r, err = inventory.ReconcileStockDetailed(separatedVec(10, 20, 20, 20), inventory.GranularityWhole, 3, true)
	require.NoError(t, err)
	assert.False(t, r.WasClamped())
}

// ──────────────────────────────────────────────────────────────────────────────
// Errores de validación
// ──────────────────────────────────────────────────────────────────────────────

func TestReconcileStock_VentrescaSinSeparacion_Rechaza(t *testing.T) {
	for _, n := range []int{-3, 0, 1, 7} {
		_, err := inventory.ReconcileStock(mergedVec(10, 20, 40), inventory.GranularityQuarterBelly, n, false)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidGranularity))
		var gerr *inventory.GranularityError
		assert.True(t, errors.As(err, &gerr))
	}
}

func TestReconcileStock_GranularidadDesconocida(t *testing.T) {
	_, err := inventory.ReconcileStock(separatedVec(1, 2, 2, 2), inventory.Granularity(99), 1, true)
	assert.ErrorIs(t, err, domain.ErrInvalidGranularity)
}

func TestReconcileStock_FormaInconsistente(t *testing.T) {
	_, err := inventory.ReconcileStock(separatedVec(1, 2, 2, 2), inventory.GranularityWhole, 1, false)
	assert.ErrorIs(t, err, domain.ErrInconsistentState, "ventresca presente sin separación")

	_, err = inventory.ReconcileStock(mergedVec(1, 2, 4), inventory.GranularityWhole, 1, true)
	assert.ErrorIs(t, err, domain.ErrInconsistentState, "separación sin pool de ventresca")

	_, err = inventory.ReconcileStock(mergedVec(-1, 2, 4), inventory.GranularityWhole, 0, false)
	assert.ErrorIs(t, err, domain.ErrInconsistentState, "campos negativos en la entrada")
}

// ──────────────────────────────────────────────────────────────────────────────
// Vector inicial y resumen
// ──────────────────────────────────────────────────────────────────────────────

func TestNewFishStock(t *testing.T) {
	v, err := inventory.NewFishStock(5, true)
	require.NoError(t, err)
	assert.Equal(t, separatedVec(5, 10, 10, 10), v)
	assert.Equal(t, 20, inventory.TotalStock(v))

	v, err = inventory.NewFishStock(5, false)
	require.NoError(t, err)
	assert.Equal(t, mergedVec(5, 10, 20), v)
	assert.Equal(t, 20, inventory.TotalStock(v))

	_, err = inventory.NewFishStock(-1, false)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestNewFishStock_TopeDeEnteros(t *testing.T) {
	v, err := inventory.NewFishStock(inventory.MaxWholeCount, false)
	require.NoError(t, err)
	assert.LessOrEqual(t, v.QuarterBack, inventory.MaxQuantity, "4×enteros cabe en la columna")

	_, err = inventory.NewFishStock(inventory.MaxWholeCount+1, false)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	_, err = inventory.NewFishStock(5_000_000_000, true)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestReconcileStock_ReposicionFueraDeRango(t *testing.T) {
	// Reponer tantos enteros que los cuartos superan MaxQuantity.
	_, err := inventory.ReconcileStock(mergedVec(0, 0, 0), inventory.GranularityWhole, -inventory.MaxWholeCount-1, false)
	var qerr *inventory.QuantityError
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, inventory.GranularityQuarterBack, qerr.Granularity)

	_, err = inventory.ReconcileStock(separatedVec(1, 2, 2, 2), inventory.GranularityHalf, -5_000_000_000, true)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}
