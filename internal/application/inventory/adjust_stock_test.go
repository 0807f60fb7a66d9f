package inventory_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pescaderia-api/internal/application/inventory"
	"github.com/jhoicas/Pescaderia-api/internal/domain"
	"github.com/jhoicas/Pescaderia-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Pescaderia-api/internal/domain/inventory"
)

const testOperatorID = "00000000-0000-0000-0000-0000000000a1"

func newAdjustFixture() (*memStore, *recordingPublisher, *inventory.AdjustStockUseCase) {
	store := newMemStore()
	pub := &recordingPublisher{}
	uc := inventory.NewAdjustStockUseCase(&fakeTxRunner{store: store}, &recordingCache{}, pub, zerolog.Nop())
	return store, pub, uc
}

func TestAdjustStock_ReasignaConCascada(t *testing.T) {
	store, pub, uc := newAdjustFixture()
	store.addProduct(fishProduct("p1", true), vec(10, 20, 20, 20))

	out, err := uc.AdjustStock(context.Background(), inventory.AdjustStockInput{
		ProductID:  "p1",
		OperatorID: testOperatorID,
		Quantities: map[string]int{"WHOLE": 12},
	})
	require.NoError(t, err)
	assert.Equal(t, vec(12, 24, 24, 24), out.Stock)
	assert.Equal(t, 48, out.TotalStock)
	assert.Equal(t, vec(12, 24, 24, 24), store.vectors["p1"])

	require.Len(t, store.movements, 1)
	assert.Equal(t, entity.MovementSourceAdmin, store.movements[0].Source)
	assert.Equal(t, testOperatorID, store.movements[0].CreatedBy)
	require.Len(t, pub.events, 1)
	assert.Equal(t, entity.MovementSourceAdmin, pub.events[0].Source)
}

func TestAdjustStock_TransaccionReintentada_AplicaUnaSolaVez(t *testing.T) {
	store := newMemStore()
	runner := &fakeTxRunner{store: store, conflicts: 2}
	pub := &recordingPublisher{}
	uc := inventory.NewAdjustStockUseCase(runner, &recordingCache{}, pub, zerolog.Nop())
	store.addProduct(fishProduct("p1", true), vec(10, 20, 20, 20))

	out, err := uc.AdjustStock(context.Background(), inventory.AdjustStockInput{
		ProductID:  "p1",
		Quantities: map[string]int{"WHOLE": 12},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, runner.runs)
	assert.Equal(t, vec(12, 24, 24, 24), out.Stock)
	assert.Equal(t, vec(12, 24, 24, 24), store.vectors["p1"])
	require.Len(t, store.movements, 1)
	assert.Equal(t, vec(10, 20, 20, 20), store.movements[0].Before)
	assert.Len(t, pub.events, 1)
}

func TestAdjustStock_InformaRecortes(t *testing.T) {
	store, _, uc := newAdjustFixture()
	store.addProduct(fishProduct("p1", true), vec(2, 4, 4, 1))

	out, err := uc.AdjustStock(context.Background(), inventory.AdjustStockInput{
		ProductID:  "p1",
		Quantities: map[string]int{"WHOLE": 0},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"QUARTER_BELLY"}, out.Clamped)
	assert.Equal(t, []string{"QUARTER_BELLY"}, store.movements[0].Clamped)
}

func TestAdjustStock_ValorNegativo_NoModifica(t *testing.T) {
	store, pub, uc := newAdjustFixture()
	store.addProduct(fishProduct("p1", true), vec(10, 20, 20, 20))

	_, err := uc.AdjustStock(context.Background(), inventory.AdjustStockInput{
		ProductID:  "p1",
		Quantities: map[string]int{"HALF": -4},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.Equal(t, vec(10, 20, 20, 20), store.vectors["p1"])
	assert.Empty(t, pub.events)
}

func TestAdjustStock_ModoSeparacionCambiado(t *testing.T) {
	store, _, uc := newAdjustFixture()
	// Fila de ventresca presente en un producto marcado sin separación.
	store.addProduct(fishProduct("p1", false), vec(10, 20, 20, 20))

	_, err := uc.AdjustStock(context.Background(), inventory.AdjustStockInput{
		ProductID:  "p1",
		Quantities: map[string]int{"WHOLE": 5},
	})
	assert.ErrorIs(t, err, domain.ErrInconsistentState)
}

func TestAdjustStock_ProductoPorUnidad(t *testing.T) {
	store, _, uc := newAdjustFixture()
	store.addProduct(&entity.Product{ID: "u1", PricingType: entity.PricingTypeUnit}, domaininv.StockVector{Whole: 5})

	out, err := uc.AdjustStock(context.Background(), inventory.AdjustStockInput{
		ProductID:  "u1",
		Quantities: map[string]int{"WHOLE": 9},
	})
	require.NoError(t, err)
	assert.Equal(t, 9, out.Stock.Whole)

	_, err = uc.AdjustStock(context.Background(), inventory.AdjustStockInput{
		ProductID:  "u1",
		Quantities: map[string]int{"QUARTER_BACK": 9},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidGranularity)

	_, err = uc.AdjustStock(context.Background(), inventory.AdjustStockInput{
		ProductID:  "u1",
		Quantities: map[string]int{"WHOLE": domaininv.MaxQuantity + 1},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.Equal(t, 9, store.vectors["u1"].Whole)
}

func TestAdjustStock_ValorFueraDeRango_NoModifica(t *testing.T) {
	store, pub, uc := newAdjustFixture()
	store.addProduct(fishProduct("p1", true), vec(10, 20, 20, 20))

	_, err := uc.AdjustStock(context.Background(), inventory.AdjustStockInput{
		ProductID:  "p1",
		Quantities: map[string]int{"WHOLE": 5_000_000_000},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.Equal(t, vec(10, 20, 20, 20), store.vectors["p1"])
	assert.Empty(t, store.movements)
	assert.Empty(t, pub.events)
}

func TestAdjustStock_Errores(t *testing.T) {
	_, _, uc := newAdjustFixture()

	_, err := uc.AdjustStock(context.Background(), inventory.AdjustStockInput{ProductID: "p1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.AdjustStock(context.Background(), inventory.AdjustStockInput{
		ProductID: "p1", Quantities: map[string]int{"FILLET": 1},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidGranularity)

	_, err = uc.AdjustStock(context.Background(), inventory.AdjustStockInput{
		ProductID: "nope", Quantities: map[string]int{"WHOLE": 1},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// StockQueryUseCase
// ──────────────────────────────────────────────────────────────────────────────

func TestStockQuery_Disponibilidad(t *testing.T) {
	reader := mapReader{
		"p1": {ProductID: "p1", PricingType: entity.PricingTypeFish, SeparatesQuarters: true, Vector: vec(3, 6, 6, 5), TotalStock: 11},
		"m1": {ProductID: "m1", PricingType: entity.PricingTypeFish, Vector: domaininv.StockVector{Whole: 2, Half: 4, QuarterBack: 8}, TotalStock: 8},
	}
	uc := inventory.NewStockQueryUseCase(reader)
	ctx := context.Background()

	stock, err := uc.GetStock(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 11, stock.TotalStock)

	av, err := uc.CheckAvailability(ctx, "p1", "quarter_belly", 5)
	require.NoError(t, err)
	assert.True(t, av.InStock)
	assert.Equal(t, 5, av.Available)

	av, err = uc.CheckAvailability(ctx, "p1", "WHOLE", 4)
	require.NoError(t, err)
	assert.False(t, av.InStock)

	_, err = uc.CheckAvailability(ctx, "m1", "QUARTER_BELLY", 1)
	assert.ErrorIs(t, err, domain.ErrInvalidGranularity)

	_, err = uc.CheckAvailability(ctx, "p1", "WHOLE", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.GetStock(ctx, "zz")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
