package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Pago es un abono registrado contra un contrato de préstamo.
type Pago struct {
	ID            int64
	ContratoID    int64
	SolicitudID   *int64
	Monto         decimal.Decimal
	MetodoPago    string
	Referencia    string // referencia de caja; uuid si no se indica
	Observaciones string
	FechaPago     time.Time
}

// SaldoContrato es el estado de deuda de un contrato: valor total menos abonos,
// nunca negativo.
type SaldoContrato struct {
	MontoTotal  decimal.Decimal
	TotalPagado decimal.Decimal
	Saldo       decimal.Decimal
}
