package entity

import "time"

// Acciones diferidas sobre Productos tras un cambio de estado de contrato.
const (
	AccionSetAVenta       = "set_a_venta"
	AccionBorrarProducto  = "delete_producto"
)

// AccionPendiente es una entrada del outbox: un efecto sobre Productos que falló
// en el camino de la petición y queda persistido para reintento con backoff.
// Agotados los intentos queda en la tabla para reconciliación manual.
type AccionPendiente struct {
	ID            string // uuid
	ContratoID    int64
	ProductoID    int64
	Accion        string // set_a_venta, delete_producto
	Payload       map[string]any
	ErrorMessage  string
	Attempts      int
	NextAttemptAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
