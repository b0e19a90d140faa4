package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/casaempenos/prestamos-api/internal/domain/entity"
)

// LiquidezRepository define el puerto de persistencia para los saldos de sucursal.
// Las mutaciones de una transferencia deben ejecutarse sobre repos atados a una
// misma transacción (ver contratos.LiquidezTxRunner).
type LiquidezRepository interface {
	ListSucursales() ([]*entity.LiquidezSucursal, error)
	Get(sucursal string) (*entity.LiquidezSucursal, error)
	// GetForUpdate lee el saldo bloqueando la fila (SELECT ... FOR UPDATE);
	// serializa transferencias concurrentes desde la misma sucursal.
	GetForUpdate(sucursal string) (*entity.LiquidezSucursal, error)
	Upsert(l *entity.LiquidezSucursal) error
	Debitar(sucursal string, monto decimal.Decimal) error
	// Acreditar suma al saldo, creando la fila de la sucursal si no existe.
	Acreditar(sucursal string, monto decimal.Decimal) error
}

// TransferenciaFiltros filtros del historial de transferencias.
type TransferenciaFiltros struct {
	Origen     string
	Destino    string
	DesdeFecha *time.Time
	HastaFecha *time.Time
}

// TransferenciaRepository define el puerto de persistencia del historial de transferencias.
type TransferenciaRepository interface {
	Create(t *entity.Transferencia) error
	List(f TransferenciaFiltros) ([]*entity.Transferencia, error)
}
