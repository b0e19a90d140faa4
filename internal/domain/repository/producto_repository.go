package repository

import (
	"github.com/shopspring/decimal"

	"github.com/casaempenos/prestamos-api/internal/domain/entity"
)

// ProductoFiltros filtros de listado de artículos. Los punteros nil se omiten.
type ProductoFiltros struct {
	Clase     *int
	Estado    string
	Sucursal  string
	PrecioMin *decimal.Decimal
	PrecioMax *decimal.Decimal
	SinPrecio bool
	Texto     string // búsqueda libre sobre nombre y descripción (ya normalizada)
}

// CategoriaResumen agregado por clase de artículo.
type CategoriaResumen struct {
	Clase    int
	Nombre   string
	Cantidad int
}

// SucursalResumen agregado de artículos por sucursal.
type SucursalResumen struct {
	Sucursal string
	Cantidad int
}

// ProductoRepository define el puerto de persistencia para Producto.
type ProductoRepository interface {
	Create(p *entity.Producto) error
	GetByID(id int64) (*entity.Producto, error)
	List(f ProductoFiltros) ([]*entity.Producto, error)
	Update(p *entity.Producto) error
	// Delete es borrado físico (los artículos no usan borrado lógico).
	// Devuelve false si el artículo no existe.
	Delete(id int64) (bool, error)
	ListCategorias() ([]CategoriaResumen, error)
	ListSucursales() ([]SucursalResumen, error)
}
