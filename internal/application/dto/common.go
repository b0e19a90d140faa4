package dto

// ErrorResponse cuerpo de error HTTP.
// Detail transporta el cuerpo devuelto por un servicio hermano cuando la
// operación falló aguas arriba; los errores internos propios no se detallan.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  any    `json:"detail,omitempty"`
}

// Meta metadatos de paginación en respuestas de listado.
type Meta struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}
