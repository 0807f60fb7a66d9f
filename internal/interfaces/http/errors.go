package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pescaderia-api/internal/application/dto"
	"github.com/jhoicas/Pescaderia-api/internal/domain"
)

// errorStatus traduce errores de dominio a (status HTTP, código de error).
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrInvalidGranularity):
		return fiber.StatusBadRequest, "INVALID_GRANULARITY"
	case errors.Is(err, domain.ErrInvalidQuantity):
		return fiber.StatusBadRequest, "INVALID_QUANTITY"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrInconsistentState):
		return fiber.StatusUnprocessableEntity, "INCONSISTENT_STATE"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusServiceUnavailable, "TIMEOUT"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}

// writeError responde con el ErrorResponse correspondiente al error.
func writeError(c *fiber.Ctx, err error) error {
	status, code := errorStatus(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = "error interno"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
