package repository

import "github.com/casaempenos/prestamos-api/internal/domain/entity"

// OrdenRepository define el puerto de persistencia para Orden.
type OrdenRepository interface {
	// Create persiste la orden y asigna su ID.
	Create(o *entity.Orden) error
	GetByID(id int64) (*entity.Orden, error)
	List() ([]*entity.Orden, error)
	ListByUsuario(usuarioID int64) ([]*entity.Orden, error)
	// UpdateEstado cambia el estado; devuelve false si la orden no existe.
	// La implementación repara la columna estado si falta en el esquema.
	UpdateEstado(id int64, estado string) (bool, error)
}
