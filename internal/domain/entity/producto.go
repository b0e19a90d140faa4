package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Clases de artículo (código numérico de la categoría).
const (
	ClaseJoyas     = 1
	ClaseMercancia = 2
	ClaseVehiculos = 3
)

// Estados de un artículo en inventario.
const (
	ProductoGarantia = "garantia" // retenido como garantía de un contrato vigente
	ProductoAVenta   = "a_venta"  // disponible para la tienda
)

// ProductoMetadata atributos opcionales del artículo (peso, kilataje, vínculo a contrato).
type ProductoMetadata struct {
	Peso           *float64 `json:"peso,omitempty"`
	PesoPiedra     *float64 `json:"peso_piedra,omitempty"`
	Kilate         *int     `json:"kilate,omitempty"`
	Tipo           *int     `json:"tipo,omitempty"`
	OrigenContrato bool     `json:"origen_contrato,omitempty"`
	ContratoNumero int64    `json:"con_numero,omitempty"`
	SolicitudID    int64    `json:"solicitud_id,omitempty"`
}

// Producto representa un artículo del inventario de una sucursal.
type Producto struct {
	ID          int64
	Nombre      string
	Descripcion string
	Categoria   string // texto libre normalizado: Joyas, Mercancía, Vehículos
	Clase       int    // código numérico derivado de Categoria
	Precio      decimal.Decimal
	Cantidad    int
	Estado      string // garantia, a_venta
	Imagenes    []string
	Sucursal    string
	Metadata    *ProductoMetadata
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
