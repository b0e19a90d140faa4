package httpclient

import (
	"context"

	"github.com/casaempenos/prestamos-api/internal/application/dto"
)

// ContratosClient cliente HTTP tipado del servicio de contratos.
// Solicitudes lo usa para la notificación best-effort al aprobar.
type ContratosClient struct {
	baseClient
}

// NewContratosClient construye el cliente con la URL base del servicio.
func NewContratosClient(baseURL string) *ContratosClient {
	return &ContratosClient{baseClient: newBaseClient("contratos", baseURL)}
}

// CrearContrato pide la creación de un contrato a partir de una solicitud aprobada.
func (c *ContratosClient) CrearContrato(ctx context.Context, token string, req dto.CrearContratoRequest) (*dto.ContratoResponse, error) {
	var out dto.ContratoResponse
	if err := c.doJSON(ctx, "POST", "/api/contratos", token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
