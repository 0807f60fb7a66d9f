package inventory

import (
	"encoding/json"
	"math"
	"strconv"
)

// OptionalQty cantidad que puede estar ausente. El cero de OptionalQty es "ausente".
type OptionalQty struct {
	value   int
	present bool
}

// Some construye una cantidad presente.
func Some(n int) OptionalQty { return OptionalQty{value: n, present: true} }

// None construye una cantidad ausente.
func None() OptionalQty { return OptionalQty{} }

// Get devuelve el valor y si está presente.
func (o OptionalQty) Get() (int, bool) { return o.value, o.present }

// IsPresent indica si la cantidad existe.
func (o OptionalQty) IsPresent() bool { return o.present }

// OrZero devuelve el valor o 0 si está ausente.
func (o OptionalQty) OrZero() int {
	if !o.present {
		return 0
	}
	return o.value
}

// MarshalJSON ausente → null.
func (o OptionalQty) MarshalJSON() ([]byte, error) {
	if !o.present {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(o.value)), nil
}

// UnmarshalJSON null → ausente.
func (o *OptionalQty) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*o = None()
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*o = Some(n)
	return nil
}

// StockVector es el inventario de un producto tipo pescado en sus cuatro granularidades.
// Un pescado entero equivale a 2 medios y 4 cuartos (2 lomo + 2 ventresca si hay separación,
// si no 4 cuartos indistintos guardados en QuarterBack). Los campos se mantienen
// aproximadamente consistentes recalculando en cada mutación.
type StockVector struct {
	Whole        int         `json:"whole"`
	Half         int         `json:"half"`
	QuarterBack  int         `json:"quarter_back"`
	QuarterBelly OptionalQty `json:"quarter_belly"`
}

// MaxQuantity mayor cantidad que admite una granularidad (product_variants.quantity es INTEGER).
const MaxQuantity = math.MaxInt32

// MaxWholeCount tope de enteros al crear un producto: 4×whole cuartos debe caber en MaxQuantity.
const MaxWholeCount = MaxQuantity / 4

// NewFishStock vector inicial al crear un producto tipo pescado a partir de los enteros ingresados.
func NewFishStock(whole int, separated bool) (StockVector, error) {
	if whole < 0 || whole > MaxWholeCount {
		return StockVector{}, &QuantityError{Granularity: GranularityWhole, Value: whole}
	}
	if separated {
		return StockVector{
			Whole:        whole,
			Half:         2 * whole,
			QuarterBack:  2 * whole,
			QuarterBelly: Some(2 * whole),
		}, nil
	}
	return StockVector{
		Whole:        whole,
		Half:         2 * whole,
		QuarterBack:  4 * whole,
		QuarterBelly: None(),
	}, nil
}

// Get devuelve la cantidad disponible en la granularidad g.
// Para QUARTER_BELLY ausente devuelve (0, false).
func (v StockVector) Get(g Granularity) (int, bool) {
	switch g {
	case GranularityWhole:
		return v.Whole, true
	case GranularityHalf:
		return v.Half, true
	case GranularityQuarterBack:
		return v.QuarterBack, true
	case GranularityQuarterBelly:
		return v.QuarterBelly.Get()
	}
	return 0, false
}

// TotalStock cifra resumida desnormalizada en products.total_stock:
// lomo + ventresca cuando hay separación, si no el pool único de cuartos.
func TotalStock(v StockVector) int {
	return v.QuarterBack + v.QuarterBelly.OrZero()
}

// Validate comprueba que la forma del vector coincida con el modo de separación
// y que ningún campo sea negativo.
func (v StockVector) Validate(separated bool) error {
	if separated && !v.QuarterBelly.IsPresent() {
		return &StateError{Reason: "producto con separación sin pool de ventresca"}
	}
	if !separated && v.QuarterBelly.IsPresent() {
		return &StateError{Reason: "pool de ventresca presente en producto sin separación"}
	}
	if v.Whole < 0 || v.Half < 0 || v.QuarterBack < 0 || v.QuarterBelly.OrZero() < 0 {
		return &StateError{Reason: "cantidades negativas en el vector actual"}
	}
	return nil
}

// checkBounds rechaza el primer campo que supere MaxQuantity.
func (v StockVector) checkBounds() error {
	for _, g := range reallocationOrder {
		if n, ok := v.Get(g); ok && n > MaxQuantity {
			return &QuantityError{Granularity: g, Value: n}
		}
	}
	return nil
}
