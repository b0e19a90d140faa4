package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/casaempenos/prestamos-api/internal/domain/entity"
)

// CrearProductoRequest alta de un artículo. La categoría en texto libre se
// mapea a la clase numérica; estado por defecto "garantia", cantidad 1.
type CrearProductoRequest struct {
	Nombre      string                   `json:"nombre"`
	Descripcion string                   `json:"descripcion"`
	Categoria   string                   `json:"categoria"`
	Precio      *decimal.Decimal         `json:"precio"`
	Cantidad    *int                     `json:"cantidad"`
	Estado      string                   `json:"estado"`
	Imagenes    []string                 `json:"imagenes"`
	Sucursal    string                   `json:"sucursal"`
	Metadata    *entity.ProductoMetadata `json:"metadata"`
}

// ActualizarProductoRequest actualización parcial tipada sobre la lista
// de campos mutables; claves desconocidas en el JSON se rechazan.
type ActualizarProductoRequest struct {
	Nombre      *string                  `json:"nombre"`
	Descripcion *string                  `json:"descripcion"`
	Categoria   *string                  `json:"categoria"`
	Precio      *decimal.Decimal         `json:"precio"`
	Cantidad    *int                     `json:"cantidad"`
	Estado      *string                  `json:"estado"`
	Imagenes    []string                 `json:"imagenes"`
	Sucursal    *string                  `json:"sucursal"`
	Metadata    *entity.ProductoMetadata `json:"metadata"`
}

// CambiarEstadoProductoRequest cambio puntual de estado (garantia / a_venta).
type CambiarEstadoProductoRequest struct {
	Estado string `json:"estado"`
}

// CambiarCantidadRequest sobreescritura de la cantidad disponible.
type CambiarCantidadRequest struct {
	Cantidad *int `json:"cantidad"`
}

// ListarProductosRequest filtros de listado (query params).
type ListarProductosRequest struct {
	Categoria string `query:"categoria"`
	Estado    string `query:"estado"`
	Sucursal  string `query:"sucursal"`
	PrecioMin string `query:"precio_min"`
	PrecioMax string `query:"precio_max"`
	SinPrecio string `query:"sin_precio"`
	Texto     string `query:"q"`
}

// ProductoResponse representación normalizada del artículo.
type ProductoResponse struct {
	ID          int64                    `json:"id"`
	Nombre      string                   `json:"nombre"`
	Descripcion string                   `json:"descripcion"`
	Categoria   string                   `json:"categoria"`
	Clase       int                      `json:"clase"`
	Precio      decimal.Decimal          `json:"precio"`
	Cantidad    int                      `json:"cantidad"`
	Estado      string                   `json:"estado"`
	Imagenes    []string                 `json:"imagenes"`
	Sucursal    string                   `json:"sucursal,omitempty"`
	Metadata    *entity.ProductoMetadata `json:"metadata,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
}

// CategoriaResponse agregado de artículos por categoría.
type CategoriaResponse struct {
	ID       int    `json:"id"`
	Nombre   string `json:"nombre"`
	Cantidad int    `json:"cantidad"`
}

// SucursalResponse agregado de artículos por sucursal.
type SucursalResponse struct {
	Nombre   string `json:"nombre"`
	Cantidad int    `json:"cantidad"`
}
