package postgres

import (
	"context"
	"fmt"
)

// Cada servicio crea sus tablas al arrancar (CREATE TABLE IF NOT EXISTS):
// los cinco comparten instancia pero cada uno es dueño de su esquema.

// EnsureUsuariosSchema crea las tablas del servicio de usuarios.
func EnsureUsuariosSchema(ctx context.Context, q Querier) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS usuarios (
			id BIGSERIAL PRIMARY KEY,
			cedula VARCHAR(20) NOT NULL UNIQUE,
			nombres VARCHAR(100) NOT NULL,
			apellidos VARCHAR(100) NOT NULL,
			username VARCHAR(50) NOT NULL UNIQUE,
			password_hash VARCHAR(100) NOT NULL,
			telefono VARCHAR(30),
			email VARCHAR(120),
			direccion VARCHAR(200),
			rol VARCHAR(20) NOT NULL DEFAULT 'cliente',
			estado VARCHAR(20) NOT NULL DEFAULT 'activo',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			deleted_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS usuario_detalles (
			usuario_id BIGINT PRIMARY KEY REFERENCES usuarios(id),
			email VARCHAR(120),
			preferencias JSONB,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	return execAll(ctx, q, stmts)
}

// EnsureProductosSchema crea la tabla de inventario.
func EnsureProductosSchema(ctx context.Context, q Querier) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS productos (
			id BIGSERIAL PRIMARY KEY,
			nombre VARCHAR(150) NOT NULL,
			descripcion TEXT,
			categoria VARCHAR(50) NOT NULL,
			clase SMALLINT NOT NULL,
			precio NUMERIC(14,2) NOT NULL DEFAULT 0,
			cantidad INT NOT NULL DEFAULT 0,
			estado VARCHAR(20) NOT NULL DEFAULT 'a_venta',
			imagenes JSONB,
			sucursal VARCHAR(80),
			metadata JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_productos_clase ON productos (clase)`,
		`CREATE INDEX IF NOT EXISTS idx_productos_estado ON productos (estado)`,
	}
	return execAll(ctx, q, stmts)
}

// EnsureOrdenesSchema crea la tabla de órdenes.
func EnsureOrdenesSchema(ctx context.Context, q Querier) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ordenes (
			id BIGSERIAL PRIMARY KEY,
			usuario_id BIGINT NOT NULL,
			cliente JSONB NOT NULL,
			productos JSONB NOT NULL,
			total NUMERIC(14,2) NOT NULL,
			estado VARCHAR(20) NOT NULL DEFAULT 'creada',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ordenes_usuario ON ordenes (usuario_id)`,
	}
	return execAll(ctx, q, stmts)
}

// EnsureSolicitudesSchema crea la tabla de solicitudes de empeño.
func EnsureSolicitudesSchema(ctx context.Context, q Querier) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS solicitudes (
			id BIGSERIAL PRIMARY KEY,
			usuario_id BIGINT NOT NULL,
			cliente JSONB NOT NULL,
			producto JSONB NOT NULL,
			estado VARCHAR(20) NOT NULL DEFAULT 'Pendiente',
			nombre_producto VARCHAR(150) NOT NULL,
			descripcion TEXT,
			categoria VARCHAR(50),
			aprobado_por BIGINT,
			motivo_rechazo TEXT,
			monto_aprobado NUMERIC(14,2),
			tasa NUMERIC(6,2),
			plazo INT,
			fecha_plazo TIMESTAMPTZ,
			sucursal VARCHAR(80),
			fecha_respuesta TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_solicitudes_estado ON solicitudes (estado)`,
		`CREATE INDEX IF NOT EXISTS idx_solicitudes_usuario ON solicitudes (usuario_id)`,
	}
	return execAll(ctx, q, stmts)
}

// EnsureContratosSchema crea las tablas del servicio de contratos:
// contratos, liquidez, transferencias, pagos y el outbox de acciones pendientes.
func EnsureContratosSchema(ctx context.Context, q Querier) error {
	stmts := []string{
		`CREATE SEQUENCE IF NOT EXISTS contratos_numero_seq START 1000`,
		`CREATE TABLE IF NOT EXISTS contratos (
			id BIGSERIAL PRIMARY KEY,
			solicitud_id BIGINT NOT NULL UNIQUE,
			producto_id BIGINT NOT NULL,
			numero BIGINT NOT NULL,
			cliente_id BIGINT NOT NULL,
			cedula VARCHAR(20) NOT NULL,
			nombre_cliente VARCHAR(200) NOT NULL,
			fecha TIMESTAMPTZ NOT NULL,
			valor NUMERIC(14,2) NOT NULL,
			tasa NUMERIC(6,2),
			tiempo INT,
			fecha_plazo TIMESTAMPTZ,
			estado VARCHAR(2) NOT NULL DEFAULT 'A',
			sucursal VARCHAR(80),
			producto JSONB NOT NULL,
			firmado BOOLEAN NOT NULL DEFAULT false,
			producto_entregado BOOLEAN NOT NULL DEFAULT false,
			monto_entregado BOOLEAN NOT NULL DEFAULT false,
			monto_desembolsado NUMERIC(14,2) NOT NULL DEFAULT 0,
			prestamo_pagado BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_contratos_cedula ON contratos (cedula)`,
		`CREATE INDEX IF NOT EXISTS idx_contratos_estado ON contratos (estado)`,
		`CREATE TABLE IF NOT EXISTS liquidez_sucursales (
			sucursal VARCHAR(80) PRIMARY KEY,
			liquidez_actual NUMERIC(14,2) NOT NULL DEFAULT 0,
			liquidez_minima NUMERIC(14,2) NOT NULL DEFAULT 0,
			liquidez_maxima NUMERIC(14,2) NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS transferencias (
			id BIGSERIAL PRIMARY KEY,
			origen VARCHAR(80) NOT NULL,
			destino VARCHAR(80) NOT NULL,
			monto NUMERIC(14,2) NOT NULL,
			motivo TEXT,
			realizado_por BIGINT,
			estado VARCHAR(20) NOT NULL DEFAULT 'completada',
			fecha TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS pagos (
			id BIGSERIAL PRIMARY KEY,
			contrato_id BIGINT NOT NULL REFERENCES contratos(id),
			solicitud_id BIGINT,
			monto NUMERIC(14,2) NOT NULL,
			metodo_pago VARCHAR(30),
			referencia VARCHAR(80),
			observaciones TEXT,
			fecha_pago TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pagos_contrato ON pagos (contrato_id)`,
		`CREATE TABLE IF NOT EXISTS acciones_pendientes (
			id UUID PRIMARY KEY,
			contrato_id BIGINT NOT NULL,
			producto_id BIGINT NOT NULL,
			accion VARCHAR(30) NOT NULL,
			payload JSONB,
			error_message TEXT,
			attempts INT NOT NULL DEFAULT 0,
			next_attempt_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	return execAll(ctx, q, stmts)
}

func execAll(ctx context.Context, q Querier, stmts []string) error {
	for _, s := range stmts {
		if _, err := q.Exec(ctx, s); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
