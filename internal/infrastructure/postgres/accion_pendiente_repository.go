package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/casaempenos/prestamos-api/internal/domain/entity"
	"github.com/casaempenos/prestamos-api/internal/domain/repository"
)

var _ repository.AccionPendienteRepository = (*AccionPendienteRepo)(nil)

// AccionPendienteRepo implementación del puerto AccionPendienteRepository sobre PostgreSQL.
type AccionPendienteRepo struct {
	q Querier
}

// NewAccionPendienteRepository construye el adaptador de persistencia del outbox de acciones sobre Productos.
func NewAccionPendienteRepository(q Querier) *AccionPendienteRepo {
	return &AccionPendienteRepo{q: q}
}

// Create persiste una acción pendiente.
func (r *AccionPendienteRepo) Create(a *entity.AccionPendiente) error {
	query := `
		INSERT INTO acciones_pendientes (id, contrato_id, producto_id, accion, payload, error_message, attempts, next_attempt_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.ContratoID, a.ProductoID, a.Accion, a.Payload,
		nullIfEmpty(a.ErrorMessage), a.Attempts, a.NextAttemptAt, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert accion pendiente: %w", err)
	}
	return nil
}

// ListDue devuelve acciones cuyo próximo intento venció, más antiguas primero.
func (r *AccionPendienteRepo) ListDue(now time.Time, limit int) ([]*entity.AccionPendiente, error) {
	query := `
		SELECT id, contrato_id, producto_id, accion, payload, error_message, attempts, next_attempt_at, created_at, updated_at
		FROM acciones_pendientes WHERE next_attempt_at <= $1 ORDER BY created_at ASC LIMIT $2`
	rows, err := r.q.Query(context.Background(), query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list acciones pendientes: %w", err)
	}
	defer rows.Close()
	var list []*entity.AccionPendiente
	for rows.Next() {
		var a entity.AccionPendiente
		var errMsg *string
		if err := rows.Scan(&a.ID, &a.ContratoID, &a.ProductoID, &a.Accion, &a.Payload,
			&errMsg, &a.Attempts, &a.NextAttemptAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan accion pendiente: %w", err)
		}
		if errMsg != nil {
			a.ErrorMessage = *errMsg
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// MarkAttempt incrementa attempts, guarda el último error y agenda el próximo intento.
func (r *AccionPendienteRepo) MarkAttempt(id string, errMsg string, nextAttemptAt time.Time) error {
	query := `
		UPDATE acciones_pendientes SET attempts = attempts + 1, error_message = $2, next_attempt_at = $3, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, nullIfEmpty(errMsg), nextAttemptAt)
	if err != nil {
		return fmt.Errorf("mark attempt accion pendiente: %w", err)
	}
	return nil
}

// Delete elimina la acción una vez ejecutada con éxito.
func (r *AccionPendienteRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM acciones_pendientes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete accion pendiente: %w", err)
	}
	return nil
}
