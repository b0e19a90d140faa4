package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/casaempenos/prestamos-api/internal/domain/entity"
)

// ItemOrdenRequest línea pedida por el cliente al crear una orden.
type ItemOrdenRequest struct {
	ID       int64 `json:"id"`
	Cantidad int   `json:"cantidad"`
}

// CrearOrdenRequest compra de artículos de la tienda.
type CrearOrdenRequest struct {
	Items []ItemOrdenRequest `json:"items"`
}

// CambiarEstadoOrdenRequest cambio de estado de la orden.
// El dueño solo puede cancelar; el personal puede fijar cualquier estado.
type CambiarEstadoOrdenRequest struct {
	Estado string `json:"estado"`
}

// OrdenResponse representación de la orden con sus snapshots.
type OrdenResponse struct {
	ID        int64                  `json:"id_orden"`
	UsuarioID int64                  `json:"id_usuario"`
	Cliente   entity.ClienteSnapshot `json:"cliente"`
	Productos []entity.LineaOrden    `json:"productos"`
	Total     decimal.Decimal        `json:"total"`
	Estado    string                 `json:"estado"`
	CreatedAt time.Time              `json:"fecha_creacion"`
}
