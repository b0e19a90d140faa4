package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/casaempenos/prestamos-api/internal/domain/entity"
)

// CrearSolicitudRequest petición de empeño. La identidad del cliente sale del
// token; los campos del body son respaldo si el token no trae esos claims.
// Las imágenes se aceptan como arreglo o como imagen1..imagen3 (máximo 3).
type CrearSolicitudRequest struct {
	Nombre         string   `json:"nombre"`
	Apellidos      string   `json:"apellidos"`
	Cedula         string   `json:"cedula"`
	Username       string   `json:"username"`
	Categoria      string   `json:"categoria"`
	NombreProducto string   `json:"nombre_producto"`
	Descripcion    string   `json:"descripcion"`
	Imagenes       []string `json:"imagenes"`
	Imagen1        string   `json:"imagen1"`
	Imagen2        string   `json:"imagen2"`
	Imagen3        string   `json:"imagen3"`
}

// ListarSolicitudesRequest filtros y paginación (query params).
type ListarSolicitudesRequest struct {
	Estado    string `query:"estado"`
	UsuarioID string `query:"usuario_id"`
	Texto     string `query:"q"`
	DesdeFecha string `query:"date_from"`
	HastaFecha string `query:"date_to"`
	Page      int    `query:"page"`
	Limit     int    `query:"limit"`
	Mine      string `query:"mine"`
}

// CambiarEstadoSolicitudRequest decisión del admin sobre la solicitud.
// Al aprobar pueden acompañarse los términos del préstamo.
type CambiarEstadoSolicitudRequest struct {
	Estado        string           `json:"estado"`
	Motivo        string           `json:"motivo"`
	MontoAprobado *decimal.Decimal `json:"monto_aprobado"`
	Tasa          *decimal.Decimal `json:"con_tasa"`
	Plazo         *int             `json:"plazo"`
	FechaPlazo    string           `json:"fecha_plazo"`
	Sucursal      string           `json:"sucursal"`
}

// SolicitudResponse representación normalizada de la solicitud.
type SolicitudResponse struct {
	ID             int64                      `json:"id"`
	UsuarioID      int64                      `json:"usuario_id"`
	Nombre         string                     `json:"nombre"`
	Apellidos      string                     `json:"apellidos"`
	Cedula         string                     `json:"cedula"`
	Username       string                     `json:"username"`
	Estado         string                     `json:"estado"`
	FechaCreacion  time.Time                  `json:"fecha_creacion"`
	FechaRespuesta *time.Time                 `json:"fecha_respuesta,omitempty"`
	Categoria      string                     `json:"categoria,omitempty"`
	NombreProducto string                     `json:"nombre_producto"`
	Descripcion    string                     `json:"descripcion,omitempty"`
	Imagenes       []string                   `json:"imagenes,omitempty"`
	AprobadoPor    *int64                     `json:"aprobado_por,omitempty"`
	MotivoRechazo  string                     `json:"motivo_rechazo,omitempty"`
	MontoAprobado  *decimal.Decimal           `json:"monto_aprobado,omitempty"`
	Tasa           *decimal.Decimal           `json:"tasa,omitempty"`
	Plazo          *int                       `json:"plazo,omitempty"`
	FechaPlazo     *time.Time                 `json:"fecha_plazo,omitempty"`
	Sucursal       string                     `json:"sucursal,omitempty"`
	Producto       *entity.ProductoSolicitado `json:"producto,omitempty"`
}

// ListaSolicitudesResponse página de solicitudes con metadatos.
type ListaSolicitudesResponse struct {
	Meta Meta                `json:"meta"`
	Data []SolicitudResponse `json:"data"`
}

// ResultadoNotificacion resultado de la notificación best-effort a Contratos
// tras aprobar; Success=false no revierte el cambio de estado ya confirmado.
type ResultadoNotificacion struct {
	Success bool   `json:"success"`
	Status  int    `json:"status,omitempty"`
	Error   string `json:"error,omitempty"`
	Body    any    `json:"body,omitempty"`
}

// CambioEstadoSolicitudResponse respuesta del cambio de estado, con el
// resultado de la notificación a Contratos cuando aplica.
type CambioEstadoSolicitudResponse struct {
	Data      SolicitudResponse      `json:"data"`
	Contratos *ResultadoNotificacion `json:"contratos,omitempty"`
}
