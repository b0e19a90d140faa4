package repository

import (
	"github.com/shopspring/decimal"

	"github.com/casaempenos/prestamos-api/internal/domain/entity"
)

// PagoRepository define el puerto de persistencia para los abonos de préstamo.
type PagoRepository interface {
	Create(p *entity.Pago) error
	ListByContrato(contratoID int64) ([]*entity.Pago, error)
	// TotalPagado suma los abonos del contrato (0 si no hay pagos).
	TotalPagado(contratoID int64) (decimal.Decimal, error)
}
