package repository

import (
	"time"

	"github.com/casaempenos/prestamos-api/internal/domain/entity"
)

// SolicitudFiltros filtros y paginación del listado de solicitudes.
type SolicitudFiltros struct {
	Estado     string
	UsuarioID  *int64
	Texto      string
	DesdeFecha *time.Time
	HastaFecha *time.Time
	Page       int
	Limit      int
}

// SolicitudRepository define el puerto de persistencia para Solicitud.
type SolicitudRepository interface {
	// Create persiste la solicitud y asigna su ID.
	Create(s *entity.Solicitud) error
	GetByID(id int64) (*entity.Solicitud, error)
	// List devuelve la página pedida y el total sin paginar.
	List(f SolicitudFiltros) ([]*entity.Solicitud, int, error)
	ListByEstado(estado string) ([]*entity.Solicitud, error)
	// ActualizarEstado fija estado, aprobado_por, motivo_rechazo y fecha_respuesta.
	// Devuelve false si la solicitud no existe.
	ActualizarEstado(id int64, estado string, aprobadoPor *int64, motivo string) (bool, error)
	// ActualizarAprobacion persiste los términos de aprobación (monto, tasa, plazo, sucursal).
	ActualizarAprobacion(id int64, a entity.Aprobacion) error
}
