package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/casaempenos/prestamos-api/internal/domain/entity"
)

// CrearContratoRequest creación de contrato sobre una solicitud aprobada.
type CrearContratoRequest struct {
	SolicitudID int64            `json:"solicitud_id"`
	Valor       *decimal.Decimal `json:"con_valor"`
	Tasa        *decimal.Decimal `json:"con_tasa"`
	Tiempo      *int             `json:"con_tiempo"`
	FechaPlazo  string           `json:"con_fecha_plazo"`
	Sucursal    string           `json:"con_sucursal"`
}

// ActualizarContratoRequest actualización parcial; solo los campos presentes
// se modifican.
type ActualizarContratoRequest struct {
	Tasa              *decimal.Decimal `json:"con_tasa"`
	Tiempo            *int             `json:"con_tiempo"`
	FechaPlazo        *string          `json:"con_fecha_plazo"`
	Sucursal          *string          `json:"con_sucursal"`
	Firmado           *bool            `json:"firmado"`
	ProductoEntregado *bool            `json:"producto_entregado"`
	MontoEntregado    *bool            `json:"monto_entregado"`
}

// CambiarEstadoContratoRequest cambio de estado del contrato. Al retirar (R)
// o pasar a venta (V) puede marcarse el préstamo como pagado.
type CambiarEstadoContratoRequest struct {
	NuevoEstado    string `json:"nuevo_estado"`
	PrestamoPagado *bool  `json:"prestamo_pagado"`
}

// DesembolsarRequest registro del desembolso entregado al cliente.
type DesembolsarRequest struct {
	Monto *decimal.Decimal `json:"monto"`
}

// ListarContratosRequest filtros de búsqueda (query params).
type ListarContratosRequest struct {
	ClienteID         string `query:"cliente_id"`
	Cedula            string `query:"cedula"`
	Estado            string `query:"estado"`
	NoEntregado       string `query:"no_entregado"`
	NoFirmado         string `query:"no_firmado"`
	VencimientoDesde  string `query:"vencimiento_desde"`
	VencimientoHasta  string `query:"vencimiento_hasta"`
	Mine              string `query:"mine"`
}

// ContratoResponse representación del contrato.
type ContratoResponse struct {
	ID                int64                    `json:"con_codigo"`
	SolicitudID       int64                    `json:"solicitud_id"`
	ProductoID        int64                    `json:"producto_id"`
	Numero            int64                    `json:"con_numero"`
	ClienteID         int64                    `json:"cliente_id"`
	Cedula            string                   `json:"con_cedula"`
	NombreCliente     string                   `json:"con_nombre"`
	Fecha             time.Time                `json:"con_fecha"`
	Valor             decimal.Decimal          `json:"con_valor"`
	Tasa              *decimal.Decimal         `json:"con_tasa,omitempty"`
	Tiempo            *int                     `json:"con_tiempo,omitempty"`
	FechaPlazo        *time.Time               `json:"con_fecha_plazo,omitempty"`
	Estado            string                   `json:"con_estado"`
	Sucursal          string                   `json:"con_sucursal,omitempty"`
	Producto          *entity.ProductoSnapshot `json:"producto,omitempty"`
	Firmado           bool                     `json:"firmado"`
	ProductoEntregado bool                     `json:"producto_entregado"`
	MontoEntregado    bool                     `json:"monto_entregado"`
	MontoDesembolsado decimal.Decimal          `json:"monto_desembolsado"`
	PrestamoPagado    bool                     `json:"prestamo_pagado"`
	CreatedAt         time.Time                `json:"created_at"`
}

// CambioEstadoContratoResponse incluye el resultado de la acción sobre el
// producto asociado; si falla queda encolada para reintento.
type CambioEstadoContratoResponse struct {
	Data             ContratoResponse `json:"data"`
	AccionProducto   string           `json:"accion_producto,omitempty"`
	AccionPendiente  bool             `json:"accion_pendiente,omitempty"`
}

// --- Liquidez ---

// TransferirLiquidezRequest transferencia entre sucursales.
type TransferirLiquidezRequest struct {
	Origen  string           `json:"origen"`
	Destino string           `json:"destino"`
	Monto   *decimal.Decimal `json:"monto"`
	Motivo  string           `json:"motivo"`
}

// ActualizarLiquidezRequest ajuste manual de los niveles de una sucursal.
type ActualizarLiquidezRequest struct {
	LiquidezActual *decimal.Decimal `json:"liquidez_actual"`
	LiquidezMinima *decimal.Decimal `json:"liquidez_minima"`
	LiquidezMaxima *decimal.Decimal `json:"liquidez_maxima"`
}

// LiquidezResponse estado de liquidez de una sucursal.
type LiquidezResponse struct {
	Sucursal       string          `json:"sucursal"`
	LiquidezActual decimal.Decimal `json:"liquidez_actual"`
	LiquidezMinima decimal.Decimal `json:"liquidez_minima"`
	LiquidezMaxima decimal.Decimal `json:"liquidez_maxima"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// TransferenciaResponse registro de una transferencia realizada.
type TransferenciaResponse struct {
	ID           int64           `json:"id"`
	Origen       string          `json:"origen"`
	Destino      string          `json:"destino"`
	Monto        decimal.Decimal `json:"monto"`
	Motivo       string          `json:"motivo,omitempty"`
	RealizadoPor *int64          `json:"realizado_por,omitempty"`
	Estado       string          `json:"estado"`
	Fecha        time.Time       `json:"fecha"`
}

// ListarTransferenciasRequest filtros del historial de transferencias.
type ListarTransferenciasRequest struct {
	Origen     string `query:"origen"`
	Destino    string `query:"destino"`
	DesdeFecha string `query:"date_from"`
	HastaFecha string `query:"date_to"`
}

// --- Pagos ---

// CrearPagoRequest abono a un contrato.
type CrearPagoRequest struct {
	Monto        *decimal.Decimal `json:"monto"`
	MetodoPago   string           `json:"metodo_pago"`
	Referencia   string           `json:"referencia"`
	Observaciones string          `json:"observaciones"`
}

// PagoResponse abono registrado.
type PagoResponse struct {
	ID            int64           `json:"id"`
	ContratoID    int64           `json:"contrato_id"`
	SolicitudID   *int64          `json:"solicitud_id,omitempty"`
	Monto         decimal.Decimal `json:"monto"`
	MetodoPago    string          `json:"metodo_pago,omitempty"`
	Referencia    string          `json:"referencia,omitempty"`
	Observaciones string          `json:"observaciones,omitempty"`
	FechaPago     time.Time       `json:"fecha_pago"`
}

// SaldoResponse saldo pendiente del contrato; nunca negativo.
type SaldoResponse struct {
	ContratoID  int64           `json:"contrato_id"`
	MontoTotal  decimal.Decimal `json:"monto_total"`
	TotalPagado decimal.Decimal `json:"total_pagado"`
	Saldo       decimal.Decimal `json:"saldo"`
}
