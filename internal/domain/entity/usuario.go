package entity

import "time"

// Estados de cuenta de usuario.
const (
	UsuarioActivo   = "activo"
	UsuarioInactivo = "inactivo"
)

// Usuario representa una cuenta de la plataforma (cliente, empleado o admin).
// El borrado es lógico: DeletedAt marcado y estado 'inactivo'; la fila permanece.
type Usuario struct {
	ID           int64
	Cedula       string
	Nombres      string
	Apellidos    string
	Username     string
	PasswordHash string // bcrypt, nunca plano después de persistir
	Telefono     string
	Email        string
	Direccion    string
	Rol          string // cliente, empleado, admin
	Estado       string // activo, inactivo
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// EsStaff indica si el usuario tiene rol de empleado o admin.
func (u *Usuario) EsStaff() bool {
	return u.Rol == "empleado" || u.Rol == "admin"
}

// UsuarioDetalle es la tabla auxiliar de contacto/preferencias,
// mantenida en sincronía con la tabla principal vía upsert.
type UsuarioDetalle struct {
	UsuarioID    int64
	Email        string
	Preferencias map[string]any
	UpdatedAt    time.Time
}
