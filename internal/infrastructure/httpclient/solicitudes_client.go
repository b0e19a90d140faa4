package httpclient

import (
	"context"
	"fmt"

	"github.com/casaempenos/prestamos-api/internal/application/dto"
)

// SolicitudesClient cliente HTTP tipado del servicio de solicitudes.
// Contratos lo usa para validar la solicitud aprobada al crear un contrato.
type SolicitudesClient struct {
	baseClient
}

// NewSolicitudesClient construye el cliente con la URL base del servicio.
func NewSolicitudesClient(baseURL string) *SolicitudesClient {
	return &SolicitudesClient{baseClient: newBaseClient("solicitudes", baseURL)}
}

// GetSolicitud obtiene una solicitud por ID.
func (c *SolicitudesClient) GetSolicitud(ctx context.Context, token string, id int64) (*dto.SolicitudResponse, error) {
	var out dto.SolicitudResponse
	if err := c.doJSON(ctx, "GET", fmt.Sprintf("/api/solicitudes/%d", id), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
