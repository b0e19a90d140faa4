package contratos

import (
	"context"
	"time"

	"github.com/casaempenos/prestamos-api/internal/application/dto"
	"github.com/casaempenos/prestamos-api/internal/domain"
	"github.com/casaempenos/prestamos-api/internal/domain/entity"
	"github.com/casaempenos/prestamos-api/internal/domain/repository"
	"github.com/casaempenos/prestamos-api/pkg/jwt"
)

const maxTransferencias = 100

// LiquidezUseCase casos de uso de liquidez por sucursal y transferencias.
type LiquidezUseCase struct {
	liqRepo    repository.LiquidezRepository
	transfRepo repository.TransferenciaRepository
	txRunner   LiquidezTxRunner
}

// NewLiquidezUseCase construye el caso de uso.
func NewLiquidezUseCase(liqRepo repository.LiquidezRepository, transfRepo repository.TransferenciaRepository, txRunner LiquidezTxRunner) *LiquidezUseCase {
	return &LiquidezUseCase{liqRepo: liqRepo, transfRepo: transfRepo, txRunner: txRunner}
}

// Listar devuelve el saldo de todas las sucursales.
func (uc *LiquidezUseCase) Listar() ([]dto.LiquidezResponse, error) {
	sucursales, err := uc.liqRepo.ListSucursales()
	if err != nil {
		return nil, err
	}
	out := make([]dto.LiquidezResponse, 0, len(sucursales))
	for _, l := range sucursales {
		out = append(out, toLiquidezResponse(l))
	}
	return out, nil
}

// Actualizar fija los niveles de una sucursal (upsert).
func (uc *LiquidezUseCase) Actualizar(sucursal string, in dto.ActualizarLiquidezRequest) (*dto.LiquidezResponse, error) {
	if sucursal == "" {
		return nil, domain.ErrInvalidInput
	}
	l, err := uc.liqRepo.Get(sucursal)
	if err != nil {
		return nil, err
	}
	if l == nil {
		l = &entity.LiquidezSucursal{Sucursal: sucursal}
	}
	if in.LiquidezActual != nil {
		l.LiquidezActual = *in.LiquidezActual
	}
	if in.LiquidezMinima != nil {
		l.LiquidezMinima = *in.LiquidezMinima
	}
	if in.LiquidezMaxima != nil {
		l.LiquidezMaxima = *in.LiquidezMaxima
	}
	l.UpdatedAt = time.Now()
	if err := uc.liqRepo.Upsert(l); err != nil {
		return nil, err
	}
	out := toLiquidezResponse(l)
	return &out, nil
}

// Transferir mueve efectivo entre sucursales en una sola transacción:
// bloquea la fila de origen, valida fondos, debita, acredita y registra.
// Origen y destino iguales se rechazan antes de tocar la base.
func (uc *LiquidezUseCase) Transferir(ctx context.Context, in dto.TransferirLiquidezRequest, perfil jwt.Perfil) (*dto.TransferenciaResponse, error) {
	if in.Origen == "" || in.Destino == "" || in.Monto == nil || !in.Monto.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	if in.Origen == in.Destino {
		return nil, domain.ErrInvalidInput
	}

	transferencia := &entity.Transferencia{
		Origen:       in.Origen,
		Destino:      in.Destino,
		Monto:        *in.Monto,
		Motivo:       in.Motivo,
		RealizadoPor: &perfil.ID,
		Estado:       "completada",
		Fecha:        time.Now(),
	}

	err := uc.txRunner.RunLiquidez(ctx, func(liqRepo repository.LiquidezRepository, transfRepo repository.TransferenciaRepository) error {
		origen, err := liqRepo.GetForUpdate(in.Origen)
		if err != nil {
			return err
		}
		if origen == nil {
			return domain.ErrNotFound
		}
		if origen.LiquidezActual.LessThan(*in.Monto) {
			return domain.ErrInsufficientLiquidity
		}
		if err := liqRepo.Debitar(in.Origen, *in.Monto); err != nil {
			return err
		}
		if err := liqRepo.Acreditar(in.Destino, *in.Monto); err != nil {
			return err
		}
		return transfRepo.Create(transferencia)
	})
	if err != nil {
		return nil, err
	}
	out := toTransferenciaResponse(transferencia)
	return &out, nil
}

// ListarTransferencias devuelve el historial filtrado (tope de 100 filas).
func (uc *LiquidezUseCase) ListarTransferencias(in dto.ListarTransferenciasRequest) ([]dto.TransferenciaResponse, error) {
	f := repository.TransferenciaFiltros{Origen: in.Origen, Destino: in.Destino}
	if in.DesdeFecha != "" {
		t, err := time.Parse("2006-01-02", in.DesdeFecha)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		f.DesdeFecha = &t
	}
	if in.HastaFecha != "" {
		t, err := time.Parse("2006-01-02", in.HastaFecha)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		fin := t.Add(24*time.Hour - time.Nanosecond)
		f.HastaFecha = &fin
	}
	transferencias, err := uc.transfRepo.List(f)
	if err != nil {
		return nil, err
	}
	if len(transferencias) > maxTransferencias {
		transferencias = transferencias[:maxTransferencias]
	}
	out := make([]dto.TransferenciaResponse, 0, len(transferencias))
	for _, t := range transferencias {
		out = append(out, toTransferenciaResponse(t))
	}
	return out, nil
}

func toLiquidezResponse(l *entity.LiquidezSucursal) dto.LiquidezResponse {
	return dto.LiquidezResponse{
		Sucursal:       l.Sucursal,
		LiquidezActual: l.LiquidezActual,
		LiquidezMinima: l.LiquidezMinima,
		LiquidezMaxima: l.LiquidezMaxima,
		UpdatedAt:      l.UpdatedAt,
	}
}

func toTransferenciaResponse(t *entity.Transferencia) dto.TransferenciaResponse {
	return dto.TransferenciaResponse{
		ID:           t.ID,
		Origen:       t.Origen,
		Destino:      t.Destino,
		Monto:        t.Monto,
		Motivo:       t.Motivo,
		RealizadoPor: t.RealizadoPor,
		Estado:       t.Estado,
		Fecha:        t.Fecha,
	}
}
