package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pescaderia-api/internal/application/dto"
	"github.com/jhoicas/Pescaderia-api/internal/application/inventory"
)

type stockQueryService interface {
	GetStock(ctx context.Context, productID string) (*dto.StockResponse, error)
	CheckAvailability(ctx context.Context, productID, granularity string, qty int) (*dto.AvailabilityResponse, error)
}

type stockAdjuster interface {
	AdjustStock(ctx context.Context, in inventory.AdjustStockInput) (*dto.StockResponse, error)
}

// InventoryHandler consulta y ajuste del vector de stock.
type InventoryHandler struct {
	query  stockQueryService
	adjust stockAdjuster
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(query stockQueryService, adjust stockAdjuster) *InventoryHandler {
	return &InventoryHandler{query: query, adjust: adjust}
}

// GetStock godoc
// @Summary      Stock por granularidad
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/stock [get]
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	out, err := h.query.GetStock(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CheckAvailability godoc
// @Summary      Verificar disponibilidad
// @Description  Orientativo: el pedido vuelve a verificar el stock bajo bloqueo.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id           path   string  true  "ID del producto"
// @Param        granularity  query  string  true  "WHOLE | HALF | QUARTER_BACK | QUARTER_BELLY"
// @Param        quantity     query  int     true  "Cantidad"
// @Success      200  {object}  dto.AvailabilityResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/availability [get]
func (h *InventoryHandler) CheckAvailability(c *fiber.Ctx) error {
	out, err := h.query.CheckAvailability(c.UserContext(), c.Params("id"), c.Query("granularity"), c.QueryInt("quantity", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AdjustStock godoc
// @Summary      Editar stock visible (consola de administración)
// @Description  Las ediciones se aplican en orden WHOLE, HALF, QUARTER_BACK, QUARTER_BELLY y recalculan el resto de granularidades.
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del producto"
// @Param        body  body  dto.AdjustStockRequest  true  "Nuevos valores por granularidad"
// @Success      200   {object}  dto.StockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/admin/products/{id}/stock [put]
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.adjust.AdjustStock(c.UserContext(), inventory.AdjustStockInput{
		ProductID:  c.Params("id"),
		OperatorID: GetUserID(c),
		Quantities: in.Quantities,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
