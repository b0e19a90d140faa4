package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/casaempenos/prestamos-api/internal/domain"
	"github.com/casaempenos/prestamos-api/internal/domain/entity"
	"github.com/casaempenos/prestamos-api/internal/domain/repository"
)

var _ repository.UsuarioRepository = (*UsuarioRepo)(nil)

// UsuarioRepo implementación del puerto UsuarioRepository sobre PostgreSQL (usable con pool o tx).
type UsuarioRepo struct {
	q Querier
}

// NewUsuarioRepository construye el adaptador de persistencia para usuarios. Pasar pool o tx (Querier).
func NewUsuarioRepository(q Querier) *UsuarioRepo {
	return &UsuarioRepo{q: q}
}

const usuarioCols = `id, cedula, nombres, apellidos, username, password_hash, telefono, email, direccion, rol, estado, created_at, updated_at, deleted_at`

func scanUsuario(row pgx.Row) (*entity.Usuario, error) {
	var u entity.Usuario
	var telefono, email, direccion *string
	err := row.Scan(
		&u.ID, &u.Cedula, &u.Nombres, &u.Apellidos, &u.Username, &u.PasswordHash,
		&telefono, &email, &direccion, &u.Rol, &u.Estado, &u.CreatedAt, &u.UpdatedAt, &u.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	if telefono != nil {
		u.Telefono = *telefono
	}
	if email != nil {
		u.Email = *email
	}
	if direccion != nil {
		u.Direccion = *direccion
	}
	return &u, nil
}

// Create persiste un nuevo usuario y asigna su ID.
func (r *UsuarioRepo) Create(u *entity.Usuario) error {
	query := `
		INSERT INTO usuarios (cedula, nombres, apellidos, username, password_hash, telefono, email, direccion, rol, estado, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		u.Cedula, u.Nombres, u.Apellidos, u.Username, u.PasswordHash,
		nullIfEmpty(u.Telefono), nullIfEmpty(u.Email), nullIfEmpty(u.Direccion),
		u.Rol, u.Estado, u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert usuario: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID. Excluye filas con borrado lógico.
func (r *UsuarioRepo) GetByID(id int64) (*entity.Usuario, error) {
	query := `SELECT ` + usuarioCols + ` FROM usuarios WHERE id = $1 AND deleted_at IS NULL`
	u, err := scanUsuario(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get usuario: %w", err)
	}
	return u, nil
}

// GetByUsername obtiene un usuario por username. Excluye filas con borrado lógico.
func (r *UsuarioRepo) GetByUsername(username string) (*entity.Usuario, error) {
	query := `SELECT ` + usuarioCols + ` FROM usuarios WHERE username = $1 AND deleted_at IS NULL`
	u, err := scanUsuario(r.q.QueryRow(context.Background(), query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get usuario by username: %w", err)
	}
	return u, nil
}

// GetByCedula obtiene un usuario por cédula. Excluye filas con borrado lógico.
func (r *UsuarioRepo) GetByCedula(cedula string) (*entity.Usuario, error) {
	query := `SELECT ` + usuarioCols + ` FROM usuarios WHERE cedula = $1 AND deleted_at IS NULL`
	u, err := scanUsuario(r.q.QueryRow(context.Background(), query, cedula))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get usuario by cedula: %w", err)
	}
	return u, nil
}

// List lista usuarios con paginación, excluyendo filas con borrado lógico.
func (r *UsuarioRepo) List(limit, offset int) ([]*entity.Usuario, error) {
	query := `SELECT ` + usuarioCols + ` FROM usuarios WHERE deleted_at IS NULL ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list usuarios: %w", err)
	}
	defer rows.Close()
	var list []*entity.Usuario
	for rows.Next() {
		u, err := scanUsuario(rows)
		if err != nil {
			return nil, fmt.Errorf("scan usuario: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// Update actualiza los datos del usuario.
func (r *UsuarioRepo) Update(u *entity.Usuario) error {
	query := `
		UPDATE usuarios SET cedula = $2, nombres = $3, apellidos = $4, username = $5, password_hash = $6,
			telefono = $7, email = $8, direccion = $9, rol = $10, estado = $11, updated_at = $12
		WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.q.Exec(context.Background(), query,
		u.ID, u.Cedula, u.Nombres, u.Apellidos, u.Username, u.PasswordHash,
		nullIfEmpty(u.Telefono), nullIfEmpty(u.Email), nullIfEmpty(u.Direccion),
		u.Rol, u.Estado, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update usuario: %w", err)
	}
	return nil
}

// SoftDelete marca el usuario como inactivo y sella deleted_at.
func (r *UsuarioRepo) SoftDelete(id int64) (bool, error) {
	query := `UPDATE usuarios SET estado = $2, deleted_at = $3, updated_at = $3 WHERE id = $1 AND deleted_at IS NULL`
	cmd, err := r.q.Exec(context.Background(), query, id, entity.UsuarioInactivo, time.Now())
	if err != nil {
		return false, fmt.Errorf("soft delete usuario: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// UpsertDetalle inserta o actualiza la fila auxiliar de contacto/preferencias.
func (r *UsuarioRepo) UpsertDetalle(d *entity.UsuarioDetalle) error {
	query := `
		INSERT INTO usuario_detalles (usuario_id, email, preferencias, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (usuario_id) DO UPDATE SET email = EXCLUDED.email, preferencias = EXCLUDED.preferencias, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		d.UsuarioID, nullIfEmpty(d.Email), d.Preferencias, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert usuario detalle: %w", err)
	}
	return nil
}
