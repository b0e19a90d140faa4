package contratos

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/casaempenos/prestamos-api/internal/application/dto"
	"github.com/casaempenos/prestamos-api/internal/domain"
	"github.com/casaempenos/prestamos-api/internal/domain/entity"
	"github.com/casaempenos/prestamos-api/internal/domain/repository"
	"github.com/casaempenos/prestamos-api/pkg/jwt"
	"github.com/casaempenos/prestamos-api/pkg/logger"
)

// JWTConfig configuración para re-firmar tokens internos.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UseCase casos de uso de contratos de préstamo.
type UseCase struct {
	repo        repository.ContratoRepository
	solicitudes SolicitudesService
	productos   ProductosService
	recorder    AccionRecorder
	tickets     TicketGenerator
	jwtCfg      JWTConfig
	log         *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	repo repository.ContratoRepository,
	solicitudes SolicitudesService,
	productos ProductosService,
	recorder AccionRecorder,
	tickets TicketGenerator,
	jwtCfg JWTConfig,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		repo:        repo,
		solicitudes: solicitudes,
		productos:   productos,
		recorder:    recorder,
		tickets:     tickets,
		jwtCfg:      jwtCfg,
		log:         log,
	}
}

// tokenInterno re-firma un token a partir de los claims del llamador, para
// que las llamadas a los hermanos lleven una firma fresca de este servicio.
func (uc *UseCase) tokenInterno(perfil jwt.Perfil) (string, error) {
	return jwt.Generate(uc.jwtCfg.Secret, perfil, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
}

func validarTerminos(tasa *decimal.Decimal, tiempo *int) error {
	if tasa != nil {
		if tasa.IsNegative() || tasa.GreaterThan(decimal.NewFromInt(100)) {
			return domain.ErrInvalidInput
		}
	}
	if tiempo != nil && *tiempo <= 0 {
		return domain.ErrInvalidInput
	}
	return nil
}

// Crear valida la solicitud aprobada contra Solicitudes, da de alta la
// garantía en Productos (si falla, se aborta) y persiste el contrato.
func (uc *UseCase) Crear(ctx context.Context, perfil jwt.Perfil, in dto.CrearContratoRequest) (*dto.ContratoResponse, error) {
	if in.SolicitudID <= 0 || in.Valor == nil || !in.Valor.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	if err := validarTerminos(in.Tasa, in.Tiempo); err != nil {
		return nil, err
	}
	var fechaPlazo *time.Time
	if in.FechaPlazo != "" {
		t, err := time.Parse("2006-01-02", in.FechaPlazo)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		fechaPlazo = &t
	}

	token, err := uc.tokenInterno(perfil)
	if err != nil {
		return nil, err
	}

	sol, err := uc.solicitudes.GetSolicitud(ctx, token, in.SolicitudID)
	if err != nil {
		return nil, err
	}
	if sol.Estado != entity.SolicitudAprobado {
		return nil, domain.ErrSolicitudNoAprobada
	}

	numero, err := uc.repo.NextNumero()
	if err != nil {
		return nil, err
	}

	categoria := sol.Categoria
	if categoria == "" {
		categoria = "Mercancía"
	}
	cantidad := 1
	producto, err := uc.productos.CrearProducto(ctx, token, dto.CrearProductoRequest{
		Nombre:      sol.NombreProducto,
		Descripcion: sol.Descripcion,
		Categoria:   categoria,
		Cantidad:    &cantidad,
		Estado:      entity.ProductoGarantia,
		Imagenes:    sol.Imagenes,
		Sucursal:    in.Sucursal,
		Metadata: &entity.ProductoMetadata{
			OrigenContrato: true,
			ContratoNumero: numero,
			SolicitudID:    sol.ID,
		},
	})
	if err != nil {
		// Sin garantía en inventario no hay contrato.
		return nil, err
	}

	now := time.Now()
	c := &entity.Contrato{
		SolicitudID:   sol.ID,
		ProductoID:    producto.ID,
		Numero:        numero,
		ClienteID:     sol.UsuarioID,
		Cedula:        sol.Cedula,
		NombreCliente: sol.Nombre + " " + sol.Apellidos,
		Fecha:         now,
		Valor:         *in.Valor,
		Tasa:          in.Tasa,
		Tiempo:        in.Tiempo,
		FechaPlazo:    fechaPlazo,
		Estado:        entity.ContratoActivo,
		Sucursal:      in.Sucursal,
		ProductoSnapshot: entity.ProductoSnapshot{
			ID:          producto.ID,
			Nombre:      producto.Nombre,
			Descripcion: producto.Descripcion,
			Categoria:   producto.Categoria,
			Imagenes:    producto.Imagenes,
		},
		MontoDesembolsado: decimal.Zero,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.repo.Create(c); err != nil {
		return nil, err
	}
	return toContratoResponse(c), nil
}

// GetByID obtiene un contrato por ID.
func (uc *UseCase) GetByID(id int64) (*dto.ContratoResponse, error) {
	c, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}
	return toContratoResponse(c), nil
}

// Listar lista contratos según los filtros. perfil puede ser nil (acceso
// anónimo); mine=true exige token y restringe al propio cliente.
func (uc *UseCase) Listar(in dto.ListarContratosRequest, perfil *jwt.Perfil) ([]dto.ContratoResponse, error) {
	f := repository.ContratoFiltros{
		Cedula:      in.Cedula,
		Estado:      in.Estado,
		NoEntregado: in.NoEntregado == "true",
		NoFirmado:   in.NoFirmado == "true",
	}
	if in.Estado != "" && !entity.EstadoContratoValido(in.Estado) {
		return nil, domain.ErrInvalidInput
	}
	if in.ClienteID != "" {
		id, err := strconv.ParseInt(in.ClienteID, 10, 64)
		if err != nil || id <= 0 {
			return nil, domain.ErrInvalidInput
		}
		f.ClienteID = &id
	}
	if in.VencimientoDesde != "" {
		t, err := time.Parse("2006-01-02", in.VencimientoDesde)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		f.VencimientoDesde = &t
	}
	if in.VencimientoHasta != "" {
		t, err := time.Parse("2006-01-02", in.VencimientoHasta)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		fin := t.Add(24*time.Hour - time.Nanosecond)
		f.VencimientoHasta = &fin
	}
	if in.Mine == "true" {
		if perfil == nil {
			return nil, domain.ErrUnauthorized
		}
		propio := perfil.ID
		f.ClienteID = &propio
	}
	contratos, err := uc.repo.List(f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ContratoResponse, 0, len(contratos))
	for _, c := range contratos {
		out = append(out, *toContratoResponse(c))
	}
	return out, nil
}

// Actualizar aplica una actualización parcial sobre los campos mutables.
func (uc *UseCase) Actualizar(id int64, in dto.ActualizarContratoRequest) (*dto.ContratoResponse, error) {
	c, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}
	if err := validarTerminos(in.Tasa, in.Tiempo); err != nil {
		return nil, err
	}
	if in.Tasa != nil {
		c.Tasa = in.Tasa
	}
	if in.Tiempo != nil {
		c.Tiempo = in.Tiempo
	}
	if in.FechaPlazo != nil {
		t, err := time.Parse("2006-01-02", *in.FechaPlazo)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		c.FechaPlazo = &t
	}
	if in.Sucursal != nil {
		c.Sucursal = *in.Sucursal
	}
	if in.Firmado != nil {
		c.Firmado = *in.Firmado
	}
	if in.ProductoEntregado != nil {
		c.ProductoEntregado = *in.ProductoEntregado
	}
	if in.MontoEntregado != nil {
		c.MontoEntregado = *in.MontoEntregado
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(c); err != nil {
		return nil, err
	}
	return toContratoResponse(c), nil
}

// CambiarEstado fija el estado del contrato y dispara el efecto sobre la
// garantía: R la pone a la venta, P (o prestamo_pagado) la elimina del
// inventario. El efecto es best-effort: si la llamada a Productos falla, la
// acción queda encolada y la petición responde igual.
func (uc *UseCase) CambiarEstado(ctx context.Context, id int64, in dto.CambiarEstadoContratoRequest, perfil jwt.Perfil) (*dto.CambioEstadoContratoResponse, error) {
	if !entity.EstadoContratoValido(in.NuevoEstado) {
		return nil, domain.ErrInvalidInput
	}
	c, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}
	c.Estado = in.NuevoEstado
	if in.PrestamoPagado != nil {
		c.PrestamoPagado = *in.PrestamoPagado
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(c); err != nil {
		return nil, err
	}

	out := &dto.CambioEstadoContratoResponse{Data: *toContratoResponse(c)}

	var accion string
	switch {
	case in.NuevoEstado == entity.ContratoRematado:
		accion = entity.AccionSetAVenta
	case in.NuevoEstado == entity.ContratoPagado || c.PrestamoPagado:
		accion = entity.AccionBorrarProducto
	default:
		return out, nil
	}
	out.AccionProducto = accion

	token, err := uc.tokenInterno(perfil)
	if err == nil {
		switch accion {
		case entity.AccionSetAVenta:
			err = uc.productos.CambiarEstado(ctx, token, c.ProductoID, entity.ProductoAVenta)
		case entity.AccionBorrarProducto:
			err = uc.productos.EliminarProducto(ctx, token, c.ProductoID)
		}
	}
	if err != nil {
		uc.log.Warn().Err(err).
			Int64("contrato_id", c.ID).
			Int64("producto_id", c.ProductoID).
			Str("accion", accion).
			Msg("el efecto sobre el producto falló; acción encolada")
		uc.recorder.Registrar(c.ID, c.ProductoID, accion, err.Error())
		out.AccionPendiente = true
	}
	return out, nil
}

// Firmar marca el contrato como firmado.
func (uc *UseCase) Firmar(id int64) (*dto.ContratoResponse, error) {
	return uc.marcar(id, func(c *entity.Contrato) { c.Firmado = true })
}

// EntregarProducto marca la garantía como entregada por el cliente.
func (uc *UseCase) EntregarProducto(id int64) (*dto.ContratoResponse, error) {
	return uc.marcar(id, func(c *entity.Contrato) { c.ProductoEntregado = true })
}

// Desembolsar registra el desembolso entregado al cliente.
func (uc *UseCase) Desembolsar(id int64, in dto.DesembolsarRequest) (*dto.ContratoResponse, error) {
	if in.Monto == nil || !in.Monto.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	return uc.marcar(id, func(c *entity.Contrato) {
		c.MontoEntregado = true
		c.MontoDesembolsado = *in.Monto
	})
}

func (uc *UseCase) marcar(id int64, fn func(*entity.Contrato)) (*dto.ContratoResponse, error) {
	c, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}
	fn(c)
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(c); err != nil {
		return nil, err
	}
	return toContratoResponse(c), nil
}

// GenerarPDF produce el ticket imprimible del contrato.
func (uc *UseCase) GenerarPDF(id int64) ([]byte, error) {
	c, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}
	return uc.tickets.GenerarTicket(c)
}

func toContratoResponse(c *entity.Contrato) *dto.ContratoResponse {
	if c == nil {
		return nil
	}
	snapshot := c.ProductoSnapshot
	return &dto.ContratoResponse{
		ID:                c.ID,
		SolicitudID:       c.SolicitudID,
		ProductoID:        c.ProductoID,
		Numero:            c.Numero,
		ClienteID:         c.ClienteID,
		Cedula:            c.Cedula,
		NombreCliente:     c.NombreCliente,
		Fecha:             c.Fecha,
		Valor:             c.Valor,
		Tasa:              c.Tasa,
		Tiempo:            c.Tiempo,
		FechaPlazo:        c.FechaPlazo,
		Estado:            c.Estado,
		Sucursal:          c.Sucursal,
		Producto:          &snapshot,
		Firmado:           c.Firmado,
		ProductoEntregado: c.ProductoEntregado,
		MontoEntregado:    c.MontoEntregado,
		MontoDesembolsado: c.MontoDesembolsado,
		PrestamoPagado:    c.PrestamoPagado,
		CreatedAt:         c.CreatedAt,
	}
}
