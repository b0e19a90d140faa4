package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/casaempenos/prestamos-api/internal/domain/entity"
	"github.com/casaempenos/prestamos-api/internal/domain/repository"
)

var _ repository.SolicitudRepository = (*SolicitudRepo)(nil)

// SolicitudRepo implementación del puerto SolicitudRepository sobre PostgreSQL (usable con pool o tx).
type SolicitudRepo struct {
	q Querier
}

// NewSolicitudRepository construye el adaptador de persistencia para solicitudes. Pasar pool o tx (Querier).
func NewSolicitudRepository(q Querier) *SolicitudRepo {
	return &SolicitudRepo{q: q}
}

const solicitudCols = `id, usuario_id, cliente, producto, estado, nombre_producto, descripcion, categoria,
	aprobado_por, motivo_rechazo, monto_aprobado, tasa, plazo, fecha_plazo, sucursal, fecha_respuesta,
	created_at, updated_at`

func scanSolicitud(row pgx.Row) (*entity.Solicitud, error) {
	var s entity.Solicitud
	var descripcion, categoria, motivo, sucursal *string
	err := row.Scan(
		&s.ID, &s.UsuarioID, &s.Cliente, &s.Producto, &s.Estado, &s.NombreProducto, &descripcion, &categoria,
		&s.AprobadoPor, &motivo, &s.MontoAprobado, &s.Tasa, &s.Plazo, &s.FechaPlazo, &sucursal, &s.FechaRespuesta,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if descripcion != nil {
		s.Descripcion = *descripcion
	}
	if categoria != nil {
		s.Categoria = *categoria
	}
	if motivo != nil {
		s.MotivoRechazo = *motivo
	}
	if sucursal != nil {
		s.Sucursal = *sucursal
	}
	return &s, nil
}

// Create persiste una nueva solicitud y asigna su ID.
func (r *SolicitudRepo) Create(s *entity.Solicitud) error {
	query := `
		INSERT INTO solicitudes (usuario_id, cliente, producto, estado, nombre_producto, descripcion, categoria, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		s.UsuarioID, s.Cliente, s.Producto, s.Estado, s.NombreProducto,
		nullIfEmpty(s.Descripcion), nullIfEmpty(s.Categoria), s.CreatedAt, s.UpdatedAt,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("insert solicitud: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud por ID.
func (r *SolicitudRepo) GetByID(id int64) (*entity.Solicitud, error) {
	query := `SELECT ` + solicitudCols + ` FROM solicitudes WHERE id = $1`
	s, err := scanSolicitud(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get solicitud: %w", err)
	}
	return s, nil
}

// List devuelve la página pedida de solicitudes y el total sin paginar.
func (r *SolicitudRepo) List(f repository.SolicitudFiltros) ([]*entity.Solicitud, int, error) {
	where := ` WHERE 1=1`
	var args []any
	idx := 1
	if f.Estado != "" {
		where += fmt.Sprintf(" AND estado = $%d", idx)
		args = append(args, f.Estado)
		idx++
	}
	if f.UsuarioID != nil {
		where += fmt.Sprintf(" AND usuario_id = $%d", idx)
		args = append(args, *f.UsuarioID)
		idx++
	}
	if f.Texto != "" {
		where += fmt.Sprintf(" AND (nombre_producto ILIKE $%d OR descripcion ILIKE $%d OR cliente->>'cedula' ILIKE $%d)", idx, idx, idx)
		args = append(args, "%"+f.Texto+"%")
		idx++
	}
	if f.DesdeFecha != nil {
		where += fmt.Sprintf(" AND created_at >= $%d", idx)
		args = append(args, *f.DesdeFecha)
		idx++
	}
	if f.HastaFecha != nil {
		where += fmt.Sprintf(" AND created_at <= $%d", idx)
		args = append(args, *f.HastaFecha)
		idx++
	}

	var total int
	if err := r.q.QueryRow(context.Background(), `SELECT COUNT(*) FROM solicitudes`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count solicitudes: %w", err)
	}

	query := `SELECT ` + solicitudCols + ` FROM solicitudes` + where + ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		offset := 0
		if f.Page > 1 {
			offset = (f.Page - 1) * f.Limit
		}
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", idx, idx+1)
		args = append(args, f.Limit, offset)
	}

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list solicitudes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Solicitud
	for rows.Next() {
		s, err := scanSolicitud(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan solicitud: %w", err)
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}

// ListByEstado lista las solicitudes en un estado dado, más recientes primero.
func (r *SolicitudRepo) ListByEstado(estado string) ([]*entity.Solicitud, error) {
	query := `SELECT ` + solicitudCols + ` FROM solicitudes WHERE estado = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, estado)
	if err != nil {
		return nil, fmt.Errorf("list solicitudes by estado: %w", err)
	}
	defer rows.Close()
	var list []*entity.Solicitud
	for rows.Next() {
		s, err := scanSolicitud(rows)
		if err != nil {
			return nil, fmt.Errorf("scan solicitud: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// ActualizarEstado fija estado, aprobado_por, motivo_rechazo y fecha_respuesta.
func (r *SolicitudRepo) ActualizarEstado(id int64, estado string, aprobadoPor *int64, motivo string) (bool, error) {
	query := `
		UPDATE solicitudes SET estado = $2, aprobado_por = $3, motivo_rechazo = $4, fecha_respuesta = $5, updated_at = $5
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query, id, estado, aprobadoPor, nullIfEmpty(motivo), time.Now())
	if err != nil {
		return false, fmt.Errorf("update estado solicitud: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// ActualizarAprobacion persiste los términos de aprobación sobre la solicitud.
func (r *SolicitudRepo) ActualizarAprobacion(id int64, a entity.Aprobacion) error {
	query := `
		UPDATE solicitudes SET monto_aprobado = $2, tasa = $3, plazo = $4, fecha_plazo = $5, sucursal = $6, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		id, a.MontoAprobado, a.Tasa, a.Plazo, a.FechaPlazo, nullIfEmpty(a.Sucursal),
	)
	if err != nil {
		return fmt.Errorf("update aprobacion solicitud: %w", err)
	}
	return nil
}
