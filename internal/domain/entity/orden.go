package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra.
const (
	OrdenCreada    = "creada"
	OrdenPagada    = "pagada"
	OrdenEnviada   = "enviada"
	OrdenEntregada = "entregada"
	OrdenCancelada = "cancelada"
)

// LineaOrden es una línea de la orden con el precio del artículo al momento de la compra.
type LineaOrden struct {
	ProductoID int64           `json:"id"`
	Nombre     string          `json:"nombre"`
	Precio     decimal.Decimal `json:"precio"`
	Cantidad   int             `json:"cantidad"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// Orden representa una compra de artículos de la tienda.
// Cliente y Productos son snapshots: copias al momento de crear la orden.
type Orden struct {
	ID        int64
	UsuarioID int64
	Cliente   ClienteSnapshot
	Productos []LineaOrden
	Total     decimal.Decimal
	Estado    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
