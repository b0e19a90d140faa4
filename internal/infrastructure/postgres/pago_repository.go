package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/casaempenos/prestamos-api/internal/domain/entity"
	"github.com/casaempenos/prestamos-api/internal/domain/repository"
)

var _ repository.PagoRepository = (*PagoRepo)(nil)

// PagoRepo implementación del puerto PagoRepository sobre PostgreSQL (usable con pool o tx).
type PagoRepo struct {
	q Querier
}

// NewPagoRepository construye el adaptador de persistencia para abonos. Pasar pool o tx (Querier).
func NewPagoRepository(q Querier) *PagoRepo {
	return &PagoRepo{q: q}
}

// Create persiste un abono y asigna su ID.
func (r *PagoRepo) Create(p *entity.Pago) error {
	query := `
		INSERT INTO pagos (contrato_id, solicitud_id, monto, metodo_pago, referencia, observaciones, fecha_pago)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		p.ContratoID, p.SolicitudID, p.Monto, nullIfEmpty(p.MetodoPago),
		nullIfEmpty(p.Referencia), nullIfEmpty(p.Observaciones), p.FechaPago,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert pago: %w", err)
	}
	return nil
}

// ListByContrato lista los abonos de un contrato, más recientes primero.
func (r *PagoRepo) ListByContrato(contratoID int64) ([]*entity.Pago, error) {
	query := `
		SELECT id, contrato_id, solicitud_id, monto, metodo_pago, referencia, observaciones, fecha_pago
		FROM pagos WHERE contrato_id = $1 ORDER BY fecha_pago DESC`
	rows, err := r.q.Query(context.Background(), query, contratoID)
	if err != nil {
		return nil, fmt.Errorf("list pagos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Pago
	for rows.Next() {
		var p entity.Pago
		var metodo, referencia, obs *string
		if err := rows.Scan(&p.ID, &p.ContratoID, &p.SolicitudID, &p.Monto, &metodo, &referencia, &obs, &p.FechaPago); err != nil {
			return nil, fmt.Errorf("scan pago: %w", err)
		}
		if metodo != nil {
			p.MetodoPago = *metodo
		}
		if referencia != nil {
			p.Referencia = *referencia
		}
		if obs != nil {
			p.Observaciones = *obs
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// TotalPagado suma los abonos del contrato; 0 si no hay pagos.
func (r *PagoRepo) TotalPagado(contratoID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(monto), 0) FROM pagos WHERE contrato_id = $1`, contratoID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total pagado: %w", err)
	}
	return total, nil
}
