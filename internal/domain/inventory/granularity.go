package inventory

import (
	"strconv"
	"strings"

	"github.com/jhoicas/Pescaderia-api/internal/domain"
)

// Granularity es la unidad en la que se vende o repone un pescado.
type Granularity int

const (
	GranularityWhole Granularity = iota + 1
	GranularityHalf
	GranularityQuarterBack
	GranularityQuarterBelly
)

// reallocationOrder es el orden fijo en que BulkReallocate aplica las ediciones.
var reallocationOrder = [...]Granularity{
	GranularityWhole,
	GranularityHalf,
	GranularityQuarterBack,
	GranularityQuarterBelly,
}

var granularityNames = map[Granularity]string{
	GranularityWhole:        "WHOLE",
	GranularityHalf:         "HALF",
	GranularityQuarterBack:  "QUARTER_BACK",
	GranularityQuarterBelly: "QUARTER_BELLY",
}

// Granularities devuelve todas las granularidades en orden de reasignación.
func Granularities() []Granularity {
	out := make([]Granularity, len(reallocationOrder))
	copy(out, reallocationOrder[:])
	return out
}

// ParseGranularity acepta el nombre del enum sin importar mayúsculas ("whole", "QUARTER_BACK").
func ParseGranularity(s string) (Granularity, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for g, n := range granularityNames {
		if n == name {
			return g, nil
		}
	}
	return 0, &GranularityError{Raw: s}
}

// Valid indica si g es uno de los cuatro valores del enum.
func (g Granularity) Valid() bool {
	_, ok := granularityNames[g]
	return ok
}

func (g Granularity) String() string {
	if n, ok := granularityNames[g]; ok {
		return n
	}
	return "UNKNOWN"
}

// MarshalText serializa la granularidad como su nombre (JSON y claves de mapa).
func (g Granularity) MarshalText() ([]byte, error) {
	if !g.Valid() {
		return nil, &GranularityError{Granularity: g}
	}
	return []byte(g.String()), nil
}

// UnmarshalText es el inverso de MarshalText.
func (g *Granularity) UnmarshalText(b []byte) error {
	parsed, err := ParseGranularity(string(b))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// GranularityError combinación granularidad/modo de separación no soportada.
type GranularityError struct {
	Granularity Granularity
	Separated   bool
	Raw         string // texto original cuando el fallo es de parseo
}

func (e *GranularityError) Error() string {
	if e.Raw != "" {
		return "granularidad desconocida: " + e.Raw
	}
	if e.Granularity == GranularityQuarterBelly && !e.Separated {
		return "QUARTER_BELLY no aplica a productos sin separación lomo/ventresca"
	}
	return "granularidad no soportada: " + e.Granularity.String()
}

func (e *GranularityError) Unwrap() error { return domain.ErrInvalidGranularity }

// QuantityError cantidad negativa o por encima de MaxQuantity.
type QuantityError struct {
	Granularity Granularity
	Value       int
}

func (e *QuantityError) Error() string {
	return "cantidad inválida para " + e.Granularity.String() + ": " + strconv.Itoa(e.Value)
}

func (e *QuantityError) Unwrap() error { return domain.ErrInvalidQuantity }

// StateError el vector de entrada no coincide con el modo de separación del producto.
type StateError struct {
	Reason string
}

func (e *StateError) Error() string { return "estado de stock inconsistente: " + e.Reason }

func (e *StateError) Unwrap() error { return domain.ErrInconsistentState }
