package repository

import (
	"time"

	"github.com/casaempenos/prestamos-api/internal/domain/entity"
)

// ContratoFiltros filtros de listado de contratos.
type ContratoFiltros struct {
	ClienteID        *int64
	Cedula           string
	Estado           string
	NoEntregado      bool
	NoFirmado        bool
	VencimientoDesde *time.Time
	VencimientoHasta *time.Time
}

// ContratoRepository define el puerto de persistencia para Contrato.
type ContratoRepository interface {
	// Create persiste el contrato y asigna su ID.
	Create(c *entity.Contrato) error
	GetByID(id int64) (*entity.Contrato, error)
	List(f ContratoFiltros) ([]*entity.Contrato, error)
	Update(c *entity.Contrato) error
	// NextNumero devuelve el siguiente consecutivo con_numero.
	NextNumero() (int64, error)
}
