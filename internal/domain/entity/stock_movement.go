package entity

import (
	"time"

	"github.com/jhoicas/Pescaderia-api/internal/domain/inventory"
)

// Origen de un cambio de stock.
const (
	MovementSourceOrder  = "order"  // venta confirmada
	MovementSourceAdmin  = "admin"  // edición manual desde la consola
	MovementSourceCreate = "create" // stock inicial al crear el producto
)

// StockMovement registro de auditoría de cada mutación del vector de stock.
// Granularity y Delta vacíos/0 en ediciones masivas; Clamped lista los campos que
// quedaron en cero por desborde negativo.
type StockMovement struct {
	ID            string
	TransactionID string
	ProductID     string
	Source        string
	Granularity   string
	Delta         int
	Before        inventory.StockVector
	After         inventory.StockVector
	Clamped       []string
	CreatedAt     time.Time
	CreatedBy     string
}
