package httpclient

import (
	"context"
	"fmt"

	"github.com/casaempenos/prestamos-api/internal/application/dto"
)

// UsuariosClient cliente HTTP tipado del servicio de usuarios.
type UsuariosClient struct {
	baseClient
}

// NewUsuariosClient construye el cliente con la URL base del servicio.
func NewUsuariosClient(baseURL string) *UsuariosClient {
	return &UsuariosClient{baseClient: newBaseClient("usuarios", baseURL)}
}

// GetUsuario obtiene un usuario por ID con el token del llamador.
func (c *UsuariosClient) GetUsuario(ctx context.Context, token string, id int64) (*dto.UsuarioResponse, error) {
	var out dto.UsuarioResponse
	if err := c.doJSON(ctx, "GET", fmt.Sprintf("/api/usuarios/%d", id), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
