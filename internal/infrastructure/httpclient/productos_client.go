package httpclient

import (
	"context"
	"fmt"

	"github.com/casaempenos/prestamos-api/internal/application/dto"
)

// ProductosClient cliente HTTP tipado del servicio de productos.
// Lo usan Ordenes (stock) y Contratos (alta de garantía, a_venta, borrado).
type ProductosClient struct {
	baseClient
}

// NewProductosClient construye el cliente con la URL base del servicio.
func NewProductosClient(baseURL string) *ProductosClient {
	return &ProductosClient{baseClient: newBaseClient("productos", baseURL)}
}

// GetProducto obtiene un artículo por ID.
func (c *ProductosClient) GetProducto(ctx context.Context, token string, id int64) (*dto.ProductoResponse, error) {
	var out dto.ProductoResponse
	if err := c.doJSON(ctx, "GET", fmt.Sprintf("/api/productos/%d", id), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CrearProducto da de alta un artículo (garantía de contrato).
func (c *ProductosClient) CrearProducto(ctx context.Context, token string, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	var out dto.ProductoResponse
	if err := c.doJSON(ctx, "POST", "/api/productos", token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CambiarEstado fija el estado del artículo (garantia / a_venta).
func (c *ProductosClient) CambiarEstado(ctx context.Context, token string, id int64, estado string) error {
	req := dto.CambiarEstadoProductoRequest{Estado: estado}
	return c.doJSON(ctx, "PATCH", fmt.Sprintf("/api/productos/%d/estado", id), token, req, nil)
}

// CambiarCantidad sobreescribe la cantidad disponible del artículo.
func (c *ProductosClient) CambiarCantidad(ctx context.Context, token string, id int64, cantidad int) error {
	req := dto.CambiarCantidadRequest{Cantidad: &cantidad}
	return c.doJSON(ctx, "PATCH", fmt.Sprintf("/api/productos/%d/cantidad", id), token, req, nil)
}

// EliminarProducto borra el artículo (garantía retirada al saldar el préstamo).
func (c *ProductosClient) EliminarProducto(ctx context.Context, token string, id int64) error {
	return c.doJSON(ctx, "DELETE", fmt.Sprintf("/api/productos/%d", id), token, nil, nil)
}
