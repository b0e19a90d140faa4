package repository

import (
	"time"

	"github.com/casaempenos/prestamos-api/internal/domain/entity"
)

// AccionPendienteRepository define el puerto de persistencia del outbox de
// efectos fallidos sobre Productos.
type AccionPendienteRepository interface {
	Create(a *entity.AccionPendiente) error
	// ListDue devuelve acciones cuyo próximo intento venció, ordenadas por antigüedad.
	ListDue(now time.Time, limit int) ([]*entity.AccionPendiente, error)
	// MarkAttempt incrementa attempts, guarda el último error y agenda el próximo intento.
	MarkAttempt(id string, errMsg string, nextAttemptAt time.Time) error
	// Delete elimina la acción una vez ejecutada con éxito.
	Delete(id string) error
}
