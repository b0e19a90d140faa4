package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LiquidezSucursal es el saldo de efectivo de una sucursal, con sus umbrales
// mínimo y máximo de operación. La sucursal (nombre) es la clave.
type LiquidezSucursal struct {
	Sucursal        string
	LiquidezActual  decimal.Decimal
	LiquidezMinima  decimal.Decimal
	LiquidezMaxima  decimal.Decimal
	UpdatedAt       time.Time
}

// Transferencia es el movimiento de efectivo entre dos sucursales.
type Transferencia struct {
	ID           int64
	Origen       string
	Destino      string
	Monto        decimal.Decimal
	Motivo       string
	RealizadoPor *int64 // id del usuario que ejecutó la transferencia
	Estado       string // completada
	Fecha        time.Time
}
