package repository

import "github.com/casaempenos/prestamos-api/internal/domain/entity"

// UsuarioRepository define el puerto de persistencia para Usuario (DIP).
// Las lecturas excluyen filas con borrado lógico salvo que se indique lo contrario.
type UsuarioRepository interface {
	Create(u *entity.Usuario) error
	GetByID(id int64) (*entity.Usuario, error)
	GetByUsername(username string) (*entity.Usuario, error)
	GetByCedula(cedula string) (*entity.Usuario, error)
	List(limit, offset int) ([]*entity.Usuario, error)
	Update(u *entity.Usuario) error
	// SoftDelete marca estado 'inactivo' y deleted_at; la fila permanece.
	// Devuelve false si el usuario no existe o ya estaba eliminado.
	SoftDelete(id int64) (bool, error)
	// UpsertDetalle mantiene la tabla auxiliar de contacto/preferencias en sincronía.
	UpsertDetalle(d *entity.UsuarioDetalle) error
}
