package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/casaempenos/prestamos-api/internal/domain/entity"
	"github.com/casaempenos/prestamos-api/internal/domain/repository"
)

var _ repository.OrdenRepository = (*OrdenRepo)(nil)

// OrdenRepo implementación del puerto OrdenRepository sobre PostgreSQL (usable con pool o tx).
type OrdenRepo struct {
	q Querier
}

// NewOrdenRepository construye el adaptador de persistencia para órdenes. Pasar pool o tx (Querier).
func NewOrdenRepository(q Querier) *OrdenRepo {
	return &OrdenRepo{q: q}
}

const ordenCols = `id, usuario_id, cliente, productos, total, estado, created_at, updated_at`

func scanOrden(row pgx.Row) (*entity.Orden, error) {
	var o entity.Orden
	err := row.Scan(
		&o.ID, &o.UsuarioID, &o.Cliente, &o.Productos, &o.Total, &o.Estado, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create persiste una nueva orden y asigna su ID. Cliente y productos van como jsonb.
func (r *OrdenRepo) Create(o *entity.Orden) error {
	query := `
		INSERT INTO ordenes (usuario_id, cliente, productos, total, estado, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		o.UsuarioID, o.Cliente, o.Productos, o.Total, o.Estado, o.CreatedAt, o.UpdatedAt,
	).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("insert orden: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID.
func (r *OrdenRepo) GetByID(id int64) (*entity.Orden, error) {
	query := `SELECT ` + ordenCols + ` FROM ordenes WHERE id = $1`
	o, err := scanOrden(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get orden: %w", err)
	}
	return o, nil
}

// List lista todas las órdenes, más recientes primero.
func (r *OrdenRepo) List() ([]*entity.Orden, error) {
	return r.list(`SELECT `+ordenCols+` FROM ordenes ORDER BY created_at DESC`)
}

// ListByUsuario lista las órdenes de un usuario, más recientes primero.
func (r *OrdenRepo) ListByUsuario(usuarioID int64) ([]*entity.Orden, error) {
	return r.list(`SELECT `+ordenCols+` FROM ordenes WHERE usuario_id = $1 ORDER BY created_at DESC`, usuarioID)
}

func (r *OrdenRepo) list(query string, args ...any) ([]*entity.Orden, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ordenes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Orden
	for rows.Next() {
		o, err := scanOrden(rows)
		if err != nil {
			return nil, fmt.Errorf("scan orden: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// UpdateEstado cambia el estado de la orden. Si la columna estado no existe
// (esquema anterior), la crea con default 'creada' y reintenta una vez.
func (r *OrdenRepo) UpdateEstado(id int64, estado string) (bool, error) {
	query := `UPDATE ordenes SET estado = $2, updated_at = now() WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query, id, estado)
	if err != nil {
		if !isUndefinedColumn(err) {
			return false, fmt.Errorf("update estado orden: %w", err)
		}
		alter := `ALTER TABLE ordenes ADD COLUMN IF NOT EXISTS estado VARCHAR(20) NOT NULL DEFAULT 'creada'`
		if _, err := r.q.Exec(context.Background(), alter); err != nil {
			return false, fmt.Errorf("reparar columna estado: %w", err)
		}
		cmd, err = r.q.Exec(context.Background(), query, id, estado)
		if err != nil {
			return false, fmt.Errorf("update estado orden: %w", err)
		}
	}
	return cmd.RowsAffected() > 0, nil
}
