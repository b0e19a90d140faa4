package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de contrato.
const (
	ContratoActivo    = "A"
	ContratoVencido   = "V"
	ContratoCancelado = "C"
	ContratoRematado  = "R" // la garantía pasa a la venta
	ContratoPagado    = "P" // préstamo saldado; la garantía se retira del inventario
)

// EstadoContratoValido indica si el estado está entre los permitidos.
func EstadoContratoValido(estado string) bool {
	switch estado {
	case ContratoActivo, ContratoVencido, ContratoCancelado, ContratoRematado, ContratoPagado:
		return true
	}
	return false
}

// Contrato es el acuerdo de préstamo creado a partir de una solicitud aprobada.
// Referencia la solicitud de origen y el artículo de inventario creado como garantía.
type Contrato struct {
	ID                int64
	SolicitudID       int64
	ProductoID        int64
	Numero            int64 // con_numero, consecutivo visible en el documento
	ClienteID         int64
	Cedula            string
	NombreCliente     string
	Fecha             time.Time
	Valor             decimal.Decimal
	Tasa              *decimal.Decimal // porcentaje 0..100
	Tiempo            *int             // plazo en días
	FechaPlazo        *time.Time
	Estado            string
	Sucursal          string
	ProductoSnapshot  ProductoSnapshot
	Firmado           bool
	ProductoEntregado bool
	MontoEntregado    bool // desembolso realizado
	MontoDesembolsado decimal.Decimal
	PrestamoPagado    bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
