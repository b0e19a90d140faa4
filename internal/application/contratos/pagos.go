package contratos

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/casaempenos/prestamos-api/internal/application/dto"
	"github.com/casaempenos/prestamos-api/internal/domain"
	"github.com/casaempenos/prestamos-api/internal/domain/entity"
	"github.com/casaempenos/prestamos-api/internal/domain/repository"
)

// PagoUseCase casos de uso de abonos sobre contratos.
type PagoUseCase struct {
	pagoRepo     repository.PagoRepository
	contratoRepo repository.ContratoRepository
}

// NewPagoUseCase construye el caso de uso.
func NewPagoUseCase(pagoRepo repository.PagoRepository, contratoRepo repository.ContratoRepository) *PagoUseCase {
	return &PagoUseCase{pagoRepo: pagoRepo, contratoRepo: contratoRepo}
}

// Registrar anota un abono contra el contrato. La referencia por defecto es
// un uuid de caja.
func (uc *PagoUseCase) Registrar(contratoID int64, in dto.CrearPagoRequest) (*dto.PagoResponse, error) {
	if in.Monto == nil || !in.Monto.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	c, err := uc.contratoRepo.GetByID(contratoID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}
	referencia := in.Referencia
	if referencia == "" {
		referencia = uuid.New().String()
	}
	solicitudID := c.SolicitudID
	p := &entity.Pago{
		ContratoID:    contratoID,
		SolicitudID:   &solicitudID,
		Monto:         *in.Monto,
		MetodoPago:    in.MetodoPago,
		Referencia:    referencia,
		Observaciones: in.Observaciones,
		FechaPago:     time.Now(),
	}
	if err := uc.pagoRepo.Create(p); err != nil {
		return nil, err
	}
	return toPagoResponse(p), nil
}

// Listar devuelve los abonos del contrato.
func (uc *PagoUseCase) Listar(contratoID int64) ([]dto.PagoResponse, error) {
	c, err := uc.contratoRepo.GetByID(contratoID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}
	pagos, err := uc.pagoRepo.ListByContrato(contratoID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PagoResponse, 0, len(pagos))
	for _, p := range pagos {
		out = append(out, *toPagoResponse(p))
	}
	return out, nil
}

// Saldo calcula valor del contrato menos abonos, con piso en cero.
func (uc *PagoUseCase) Saldo(contratoID int64) (*dto.SaldoResponse, error) {
	c, err := uc.contratoRepo.GetByID(contratoID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}
	total, err := uc.pagoRepo.TotalPagado(contratoID)
	if err != nil {
		return nil, err
	}
	saldo := c.Valor.Sub(total)
	if saldo.IsNegative() {
		saldo = decimal.Zero
	}
	return &dto.SaldoResponse{
		ContratoID:  contratoID,
		MontoTotal:  c.Valor,
		TotalPagado: total,
		Saldo:       saldo,
	}, nil
}

func toPagoResponse(p *entity.Pago) *dto.PagoResponse {
	if p == nil {
		return nil
	}
	return &dto.PagoResponse{
		ID:            p.ID,
		ContratoID:    p.ContratoID,
		SolicitudID:   p.SolicitudID,
		Monto:         p.Monto,
		MetodoPago:    p.MetodoPago,
		Referencia:    p.Referencia,
		Observaciones: p.Observaciones,
		FechaPago:     p.FechaPago,
	}
}
