// Package outbox persiste los efectos sobre Productos que fallaron en el
// camino de la petición (acciones_pendientes) y los reintenta en segundo
// plano con backoff exponencial. La petición original nunca falla por el
// efecto: se responde con la acción encolada.
package outbox

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/casaempenos/prestamos-api/internal/domain/entity"
	"github.com/casaempenos/prestamos-api/internal/domain/repository"
	"github.com/casaempenos/prestamos-api/pkg/logger"
)

const baseBackoff = time.Minute

// Recorder encola acciones fallidas: fila durable + línea en el archivo de log.
type Recorder struct {
	repo    repository.AccionPendienteRepository
	logPath string
	log     *logger.Logger
}

// NewRecorder construye el recorder. logPath puede ser vacío para omitir el archivo.
func NewRecorder(repo repository.AccionPendienteRepository, logPath string, log *logger.Logger) *Recorder {
	return &Recorder{repo: repo, logPath: logPath, log: log}
}

// Registrar persiste la acción pendiente y la anota en el archivo de fallos.
// Un fallo del propio registro solo se loguea: no hay nada mejor que hacer
// en el camino de la petición.
func (r *Recorder) Registrar(contratoID, productoID int64, accion, errMsg string) {
	now := time.Now()
	a := &entity.AccionPendiente{
		ID:            uuid.New().String(),
		ContratoID:    contratoID,
		ProductoID:    productoID,
		Accion:        accion,
		ErrorMessage:  errMsg,
		Attempts:      0,
		NextAttemptAt: now.Add(baseBackoff),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := r.repo.Create(a); err != nil {
		r.log.Error().Err(err).
			Int64("contrato_id", contratoID).
			Str("accion", accion).
			Msg("no se pudo encolar la acción pendiente")
	}
	r.appendFile(a)
}

func (r *Recorder) appendFile(a *entity.AccionPendiente) {
	if r.logPath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(r.logPath), 0o755); err != nil {
		r.log.Warn().Err(err).Msg("no se pudo crear el directorio del log de acciones")
		return
	}
	f, err := os.OpenFile(r.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		r.log.Warn().Err(err).Msg("no se pudo abrir el log de acciones")
		return
	}
	defer f.Close()
	line := fmt.Sprintf("%s accion=%s contrato=%d producto=%d error=%q\n",
		a.CreatedAt.Format(time.RFC3339), a.Accion, a.ContratoID, a.ProductoID, a.ErrorMessage)
	if _, err := f.WriteString(line); err != nil {
		r.log.Warn().Err(err).Msg("no se pudo escribir el log de acciones")
	}
}
