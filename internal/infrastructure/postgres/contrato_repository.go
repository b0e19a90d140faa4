package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/casaempenos/prestamos-api/internal/domain"
	"github.com/casaempenos/prestamos-api/internal/domain/entity"
	"github.com/casaempenos/prestamos-api/internal/domain/repository"
)

var _ repository.ContratoRepository = (*ContratoRepo)(nil)

// ContratoRepo implementación del puerto ContratoRepository sobre PostgreSQL (usable con pool o tx).
type ContratoRepo struct {
	q Querier
}

// NewContratoRepository construye el adaptador de persistencia para contratos. Pasar pool o tx (Querier).
func NewContratoRepository(q Querier) *ContratoRepo {
	return &ContratoRepo{q: q}
}

const contratoCols = `id, solicitud_id, producto_id, numero, cliente_id, cedula, nombre_cliente, fecha,
	valor, tasa, tiempo, fecha_plazo, estado, sucursal, producto, firmado, producto_entregado,
	monto_entregado, monto_desembolsado, prestamo_pagado, created_at, updated_at`

func scanContrato(row pgx.Row) (*entity.Contrato, error) {
	var c entity.Contrato
	var sucursal *string
	err := row.Scan(
		&c.ID, &c.SolicitudID, &c.ProductoID, &c.Numero, &c.ClienteID, &c.Cedula, &c.NombreCliente, &c.Fecha,
		&c.Valor, &c.Tasa, &c.Tiempo, &c.FechaPlazo, &c.Estado, &sucursal, &c.ProductoSnapshot,
		&c.Firmado, &c.ProductoEntregado, &c.MontoEntregado, &c.MontoDesembolsado, &c.PrestamoPagado,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if sucursal != nil {
		c.Sucursal = *sucursal
	}
	return &c, nil
}

// Create persiste el contrato y asigna su ID.
// solicitud_id es único: una solicitud aprobada produce a lo sumo un contrato.
func (r *ContratoRepo) Create(c *entity.Contrato) error {
	query := `
		INSERT INTO contratos (solicitud_id, producto_id, numero, cliente_id, cedula, nombre_cliente, fecha,
			valor, tasa, tiempo, fecha_plazo, estado, sucursal, producto, firmado, producto_entregado,
			monto_entregado, monto_desembolsado, prestamo_pagado, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		c.SolicitudID, c.ProductoID, c.Numero, c.ClienteID, c.Cedula, c.NombreCliente, c.Fecha,
		c.Valor, c.Tasa, c.Tiempo, c.FechaPlazo, c.Estado, nullIfEmpty(c.Sucursal), c.ProductoSnapshot,
		c.Firmado, c.ProductoEntregado, c.MontoEntregado, c.MontoDesembolsado, c.PrestamoPagado,
		c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert contrato: %w", err)
	}
	return nil
}

// GetByID obtiene un contrato por ID.
func (r *ContratoRepo) GetByID(id int64) (*entity.Contrato, error) {
	query := `SELECT ` + contratoCols + ` FROM contratos WHERE id = $1`
	c, err := scanContrato(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get contrato: %w", err)
	}
	return c, nil
}

// List lista contratos aplicando los filtros recibidos, más recientes primero.
func (r *ContratoRepo) List(f repository.ContratoFiltros) ([]*entity.Contrato, error) {
	query := `SELECT ` + contratoCols + ` FROM contratos WHERE 1=1`
	var args []any
	idx := 1
	if f.ClienteID != nil {
		query += fmt.Sprintf(" AND cliente_id = $%d", idx)
		args = append(args, *f.ClienteID)
		idx++
	}
	if f.Cedula != "" {
		query += fmt.Sprintf(" AND cedula = $%d", idx)
		args = append(args, f.Cedula)
		idx++
	}
	if f.Estado != "" {
		query += fmt.Sprintf(" AND estado = $%d", idx)
		args = append(args, f.Estado)
		idx++
	}
	if f.NoEntregado {
		query += " AND producto_entregado = false"
	}
	if f.NoFirmado {
		query += " AND firmado = false"
	}
	if f.VencimientoDesde != nil {
		query += fmt.Sprintf(" AND fecha_plazo >= $%d", idx)
		args = append(args, *f.VencimientoDesde)
		idx++
	}
	if f.VencimientoHasta != nil {
		query += fmt.Sprintf(" AND fecha_plazo <= $%d", idx)
		args = append(args, *f.VencimientoHasta)
		idx++
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list contratos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Contrato
	for rows.Next() {
		c, err := scanContrato(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contrato: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update actualiza un contrato existente.
func (r *ContratoRepo) Update(c *entity.Contrato) error {
	query := `
		UPDATE contratos SET tasa = $2, tiempo = $3, fecha_plazo = $4, estado = $5, sucursal = $6,
			firmado = $7, producto_entregado = $8, monto_entregado = $9, monto_desembolsado = $10,
			prestamo_pagado = $11, updated_at = $12
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.Tasa, c.Tiempo, c.FechaPlazo, c.Estado, nullIfEmpty(c.Sucursal),
		c.Firmado, c.ProductoEntregado, c.MontoEntregado, c.MontoDesembolsado,
		c.PrestamoPagado, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update contrato: %w", err)
	}
	return nil
}

// NextNumero devuelve el siguiente consecutivo con_numero (secuencia dedicada).
func (r *ContratoRepo) NextNumero() (int64, error) {
	var n int64
	err := r.q.QueryRow(context.Background(), `SELECT nextval('contratos_numero_seq')`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next numero contrato: %w", err)
	}
	return n, nil
}
