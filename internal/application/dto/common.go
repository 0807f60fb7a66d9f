package dto

// MaxPageLimit tope de elementos por página en listados.
const MaxPageLimit = 100

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage normaliza Limit (1..MaxPageLimit, 20 por defecto) y Offset (>= 0).
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error HTTP. Code es estable (VALIDATION, NOT_FOUND, INSUFFICIENT_STOCK, ...);
// Message es legible y puede cambiar.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
