package outbox

import (
	"context"
	"time"

	"github.com/casaempenos/prestamos-api/internal/domain/entity"
	"github.com/casaempenos/prestamos-api/internal/domain/repository"
	"github.com/casaempenos/prestamos-api/pkg/logger"
)

const loteReintentos = 50

// ProductosService puerto hacia el servicio de productos para ejecutar
// las acciones encoladas.
type ProductosService interface {
	CambiarEstado(ctx context.Context, token string, id int64, estado string) error
	EliminarProducto(ctx context.Context, token string, id int64) error
}

// TokenProvider firma un token interno para las llamadas del reintentador,
// que no tiene un llamador humano detrás.
type TokenProvider func() (string, error)

// Retrier sondea acciones_pendientes y reintenta las acciones vencidas con
// backoff exponencial. Agotados los intentos la fila queda para
// reconciliación manual.
type Retrier struct {
	repo        repository.AccionPendienteRepository
	productos   ProductosService
	token       TokenProvider
	poll        time.Duration
	maxAttempts int
	log         *logger.Logger
}

// NewRetrier construye el reintentador.
func NewRetrier(repo repository.AccionPendienteRepository, productos ProductosService, token TokenProvider, poll time.Duration, maxAttempts int, log *logger.Logger) *Retrier {
	if poll <= 0 {
		poll = time.Minute
	}
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &Retrier{repo: repo, productos: productos, token: token, poll: poll, maxAttempts: maxAttempts, log: log}
}

// Run sondea hasta que el contexto se cancele. Pensado para correr en una
// goroutine propia del servicio de contratos.
func (r *Retrier) Run(ctx context.Context) {
	ticker := time.NewTicker(r.poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Procesar(ctx)
		}
	}
}

// Procesar ejecuta una pasada sobre las acciones vencidas.
func (r *Retrier) Procesar(ctx context.Context) {
	acciones, err := r.repo.ListDue(time.Now(), loteReintentos)
	if err != nil {
		r.log.Error().Err(err).Msg("no se pudieron listar las acciones pendientes")
		return
	}
	for _, a := range acciones {
		if err := r.ejecutar(ctx, a); err != nil {
			r.marcarFallo(a, err)
			continue
		}
		if err := r.repo.Delete(a.ID); err != nil {
			r.log.Error().Err(err).Str("accion_id", a.ID).Msg("acción ejecutada pero no se pudo eliminar del outbox")
			continue
		}
		r.log.Info().
			Str("accion_id", a.ID).
			Str("accion", a.Accion).
			Int64("producto_id", a.ProductoID).
			Msg("acción pendiente ejecutada")
	}
}

func (r *Retrier) ejecutar(ctx context.Context, a *entity.AccionPendiente) error {
	token, err := r.token()
	if err != nil {
		return err
	}
	switch a.Accion {
	case entity.AccionSetAVenta:
		return r.productos.CambiarEstado(ctx, token, a.ProductoID, entity.ProductoAVenta)
	case entity.AccionBorrarProducto:
		return r.productos.EliminarProducto(ctx, token, a.ProductoID)
	}
	// Acción desconocida: no hay forma de ejecutarla, se descarta con warning.
	r.log.Warn().Str("accion_id", a.ID).Str("accion", a.Accion).Msg("acción pendiente desconocida, se descarta")
	return nil
}

func (r *Retrier) marcarFallo(a *entity.AccionPendiente, causa error) {
	intentos := a.Attempts + 1
	var next time.Time
	if intentos >= r.maxAttempts {
		// Sin más reintentos automáticos: la fila queda para reconciliación manual.
		next = time.Now().AddDate(100, 0, 0)
		r.log.Error().Err(causa).
			Str("accion_id", a.ID).
			Int("attempts", intentos).
			Msg("acción pendiente agotó sus reintentos")
	} else {
		next = time.Now().Add(baseBackoff << uint(intentos))
		r.log.Warn().Err(causa).
			Str("accion_id", a.ID).
			Int("attempts", intentos).
			Time("next_attempt", next).
			Msg("reintento de acción pendiente falló")
	}
	if err := r.repo.MarkAttempt(a.ID, causa.Error(), next); err != nil {
		r.log.Error().Err(err).Str("accion_id", a.ID).Msg("no se pudo marcar el intento fallido")
	}
}
