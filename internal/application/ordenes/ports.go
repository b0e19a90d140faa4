package ordenes

import (
	"context"

	"github.com/casaempenos/prestamos-api/internal/application/dto"
)

// UsuariosService puerto hacia el servicio de usuarios (identidad completa para el snapshot).
type UsuariosService interface {
	GetUsuario(ctx context.Context, token string, id int64) (*dto.UsuarioResponse, error)
}

// ProductosService puerto hacia el servicio de productos (lectura y ajuste de stock).
type ProductosService interface {
	GetProducto(ctx context.Context, token string, id int64) (*dto.ProductoResponse, error)
	CambiarCantidad(ctx context.Context, token string, id int64, cantidad int) error
	EliminarProducto(ctx context.Context, token string, id int64) error
}
