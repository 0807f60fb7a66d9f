package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pescaderia-api/internal/application/dto"
	"github.com/jhoicas/Pescaderia-api/internal/application/inventory"
	"github.com/jhoicas/Pescaderia-api/internal/domain/entity"
)

type orderPlacer interface {
	PlaceOrder(ctx context.Context, in inventory.PlaceOrderInput) (*entity.Order, error)
}

// OrderHandler confirmación de pedidos.
type OrderHandler struct {
	uc orderPlacer
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc orderPlacer) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// PlaceOrder godoc
// @Summary      Confirmar pedido
// @Description  Descuenta stock de las líneas tipo "order" en una sola transacción; si una línea falla no se aplica ninguna.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PlaceOrderRequest  true  "Líneas del carrito"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) PlaceOrder(c *fiber.Ctx) error {
	var in dto.PlaceOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "items es requerido"})
	}
	items := make([]inventory.OrderLineInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, inventory.OrderLineInput{
			ProductID:   it.ProductID,
			Granularity: it.Granularity,
			LineType:    it.LineType,
			Quantity:    it.Quantity,
		})
	}
	order, err := h.uc.PlaceOrder(c.UserContext(), inventory.PlaceOrderInput{
		CustomerID: GetUserID(c),
		Items:      items,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toOrderResponse(order))
}

func toOrderResponse(o *entity.Order) dto.OrderResponse {
	out := dto.OrderResponse{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		Status:     o.Status,
		Total:      o.Total,
		CreatedAt:  o.CreatedAt,
		Items:      make([]dto.OrderItemResponse, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, dto.OrderItemResponse{
			ProductID:   it.ProductID,
			Granularity: it.Granularity,
			LineType:    it.LineType,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}
	return out
}
