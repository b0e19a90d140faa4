package solicitudes

import (
	"context"

	"github.com/casaempenos/prestamos-api/internal/application/dto"
)

// ContratosService puerto hacia el servicio de contratos (notificación de aprobación).
type ContratosService interface {
	CrearContrato(ctx context.Context, token string, req dto.CrearContratoRequest) (*dto.ContratoResponse, error)
}
