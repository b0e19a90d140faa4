package contratos

import (
	"context"

	"github.com/casaempenos/prestamos-api/internal/application/dto"
	"github.com/casaempenos/prestamos-api/internal/domain/entity"
	"github.com/casaempenos/prestamos-api/internal/domain/repository"
)

// SolicitudesService puerto hacia el servicio de solicitudes.
type SolicitudesService interface {
	GetSolicitud(ctx context.Context, token string, id int64) (*dto.SolicitudResponse, error)
}

// ProductosService puerto hacia el servicio de productos: alta de la garantía
// y los efectos de los cambios de estado del contrato.
type ProductosService interface {
	CrearProducto(ctx context.Context, token string, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	CambiarEstado(ctx context.Context, token string, id int64, estado string) error
	EliminarProducto(ctx context.Context, token string, id int64) error
}

// LiquidezTxRunner ejecuta una función dentro de una transacción de BD,
// pasando repositorios atados a esa tx. Garantiza atomicidad de las
// transferencias entre sucursales.
type LiquidezTxRunner interface {
	RunLiquidez(ctx context.Context, fn func(
		liqRepo repository.LiquidezRepository,
		transfRepo repository.TransferenciaRepository,
	) error) error
}

// AccionRecorder encola un efecto sobre Productos que falló, para reintento
// en segundo plano.
type AccionRecorder interface {
	Registrar(contratoID, productoID int64, accion, errMsg string)
}

// TicketGenerator genera el documento imprimible del contrato.
type TicketGenerator interface {
	GenerarTicket(c *entity.Contrato) ([]byte, error)
}
