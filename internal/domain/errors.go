package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")

	// Motor de stock jerárquico (pescado entero / medio / cuartos).
	ErrInvalidGranularity = errors.New("granularidad inválida para el producto")
	ErrInvalidQuantity    = errors.New("cantidad inválida")
	ErrInconsistentState  = errors.New("estado de stock inconsistente")
)
