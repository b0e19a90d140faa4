package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrDuplicate             = errors.New("recurso duplicado")
	ErrUnauthorized          = errors.New("no autorizado")
	ErrForbidden             = errors.New("acceso denegado")
	ErrConflict              = errors.New("conflicto con el estado actual")
	ErrInsufficientStock     = errors.New("stock insuficiente")
	ErrInsufficientLiquidity = errors.New("liquidez insuficiente")
	ErrSolicitudNoAprobada   = errors.New("la solicitud no está aprobada")
	ErrUpstream              = errors.New("error en servicio externo")
)
