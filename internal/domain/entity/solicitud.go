package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una solicitud de empeño.
// El cambio de estado se valida contra esta lista de valores permitidos,
// no contra una tabla de transiciones.
const (
	SolicitudPendiente = "Pendiente"
	SolicitudAprobado  = "Aprobado"
	SolicitudRechazado = "Rechazado"
)

// EstadoSolicitudValido indica si el valor está en la lista de estados permitidos.
func EstadoSolicitudValido(estado string) bool {
	switch estado {
	case SolicitudPendiente, SolicitudAprobado, SolicitudRechazado:
		return true
	}
	return false
}

// ProductoSolicitado es el artículo que el cliente ofrece en garantía,
// tal como lo describió al crear la solicitud (máximo 3 imágenes).
type ProductoSolicitado struct {
	Nombre      string   `json:"nombre"`
	Descripcion string   `json:"descripcion,omitempty"`
	Categoria   string   `json:"categoria,omitempty"`
	Imagenes    []string `json:"imagenes,omitempty"`
}

// Aprobacion agrupa los términos fijados por el admin al aprobar.
type Aprobacion struct {
	MontoAprobado *decimal.Decimal
	Tasa          *decimal.Decimal
	Plazo         *int
	FechaPlazo    *time.Time
	Sucursal      string
}

// Solicitud representa la petición de un cliente de empeñar o vender un artículo.
type Solicitud struct {
	ID             int64
	UsuarioID      int64
	Cliente        ClienteSnapshot
	Producto       ProductoSolicitado
	Estado         string
	NombreProducto string // desnormalizado para filtros
	Descripcion    string
	Categoria      string
	AprobadoPor    *int64
	MotivoRechazo  string
	MontoAprobado  *decimal.Decimal
	Tasa           *decimal.Decimal
	Plazo          *int
	FechaPlazo     *time.Time
	Sucursal       string
	FechaRespuesta *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
