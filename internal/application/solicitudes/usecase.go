package solicitudes

import (
	"context"
	"strconv"
	"time"

	"github.com/casaempenos/prestamos-api/internal/application/dto"
	"github.com/casaempenos/prestamos-api/internal/domain"
	"github.com/casaempenos/prestamos-api/internal/domain/entity"
	"github.com/casaempenos/prestamos-api/internal/domain/repository"
	"github.com/casaempenos/prestamos-api/pkg/jwt"
	"github.com/casaempenos/prestamos-api/pkg/logger"
)

const maxImagenes = 3

// UseCase casos de uso de solicitudes de empeño.
type UseCase struct {
	repo      repository.SolicitudRepository
	contratos ContratosService
	log       *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.SolicitudRepository, contratos ContratosService, log *logger.Logger) *UseCase {
	return &UseCase{repo: repo, contratos: contratos, log: log}
}

// Crear registra una solicitud en estado Pendiente. La identidad sale del
// token; los campos del body solo completan lo que el token no traiga.
// Sin cédula y nombre no se persiste nada.
func (uc *UseCase) Crear(perfil jwt.Perfil, in dto.CrearSolicitudRequest) (*dto.SolicitudResponse, error) {
	cliente := entity.ClienteSnapshot{
		ID:        perfil.ID,
		Cedula:    perfil.Cedula,
		Nombres:   perfil.Nombres,
		Apellidos: perfil.Apellidos,
		Username:  perfil.Username,
	}
	if cliente.Cedula == "" {
		cliente.Cedula = in.Cedula
	}
	if cliente.Nombres == "" {
		cliente.Nombres = in.Nombre
	}
	if cliente.Apellidos == "" {
		cliente.Apellidos = in.Apellidos
	}
	if cliente.Username == "" {
		cliente.Username = in.Username
	}
	if cliente.Cedula == "" || cliente.Nombres == "" || cliente.Username == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.NombreProducto == "" {
		return nil, domain.ErrInvalidInput
	}

	imagenes := normalizarImagenes(in)

	now := time.Now()
	s := &entity.Solicitud{
		UsuarioID: perfil.ID,
		Cliente:   cliente,
		Producto: entity.ProductoSolicitado{
			Nombre:      in.NombreProducto,
			Descripcion: in.Descripcion,
			Categoria:   in.Categoria,
			Imagenes:    imagenes,
		},
		Estado:         entity.SolicitudPendiente,
		NombreProducto: in.NombreProducto,
		Descripcion:    in.Descripcion,
		Categoria:      in.Categoria,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(s); err != nil {
		return nil, err
	}
	return toSolicitudResponse(s), nil
}

// normalizarImagenes acepta el arreglo o los campos imagen1..imagen3 y
// recorta al máximo permitido.
func normalizarImagenes(in dto.CrearSolicitudRequest) []string {
	imagenes := in.Imagenes
	if len(imagenes) == 0 {
		for _, img := range []string{in.Imagen1, in.Imagen2, in.Imagen3} {
			if img != "" {
				imagenes = append(imagenes, img)
			}
		}
	}
	if len(imagenes) > maxImagenes {
		imagenes = imagenes[:maxImagenes]
	}
	return imagenes
}

// GetByID obtiene una solicitud. El cliente solo puede ver las suyas.
func (uc *UseCase) GetByID(id int64, perfil jwt.Perfil) (*dto.SolicitudResponse, error) {
	s, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, nil
	}
	if perfil.Nivel < 2 && s.UsuarioID != perfil.ID {
		return nil, domain.ErrForbidden
	}
	return toSolicitudResponse(s), nil
}

// Listar devuelve la página pedida. El cliente siempre queda restringido a
// sus propias solicitudes, pida lo que pida en los filtros.
func (uc *UseCase) Listar(in dto.ListarSolicitudesRequest, perfil jwt.Perfil) (*dto.ListaSolicitudesResponse, error) {
	f := repository.SolicitudFiltros{
		Estado: in.Estado,
		Texto:  in.Texto,
		Page:   in.Page,
		Limit:  in.Limit,
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Limit > 500 {
		f.Limit = 500
	}
	if f.Estado != "" && !entity.EstadoSolicitudValido(f.Estado) {
		return nil, domain.ErrInvalidInput
	}
	if in.UsuarioID != "" {
		id, err := strconv.ParseInt(in.UsuarioID, 10, 64)
		if err != nil || id <= 0 {
			return nil, domain.ErrInvalidInput
		}
		f.UsuarioID = &id
	}
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
	if perfil.Nivel < 2 || in.Mine == "true" {
		propio := perfil.ID
		f.UsuarioID = &propio
	}

	lista, total, err := uc.repo.List(f)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SolicitudResponse, 0, len(lista))
	for _, s := range lista {
		data = append(data, *toSolicitudResponse(s))
	}
	return &dto.ListaSolicitudesResponse{
		Meta: dto.Meta{Total: total, Page: f.Page, Limit: f.Limit},
		Data: data,
	}, nil
}

// ListarPorEstado lista las solicitudes en un estado dado (tope de 500 filas).
func (uc *UseCase) ListarPorEstado(estado string) ([]dto.SolicitudResponse, error) {
	if !entity.EstadoSolicitudValido(estado) {
		return nil, domain.ErrInvalidInput
	}
	lista, err := uc.repo.ListByEstado(estado)
	if err != nil {
		return nil, err
	}
	if len(lista) > 500 {
		lista = lista[:500]
	}
	out := make([]dto.SolicitudResponse, 0, len(lista))
	for _, s := range lista {
		out = append(out, *toSolicitudResponse(s))
	}
	return out, nil
}

// CambiarEstado fija el nuevo estado (lista de valores permitidos, no tabla
// de transiciones). Al aprobar con monto se persisten los términos y se
// notifica a Contratos con el token del llamador; si la notificación falla
// el estado ya confirmado no se revierte y el fallo viaja como advertencia.
func (uc *UseCase) CambiarEstado(ctx context.Context, id int64, in dto.CambiarEstadoSolicitudRequest, perfil jwt.Perfil, token string) (*dto.CambioEstadoSolicitudResponse, error) {
	if !entity.EstadoSolicitudValido(in.Estado) {
		return nil, domain.ErrInvalidInput
	}
	s, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, nil
	}

	aprobadoPor := &perfil.ID
	motivo := ""
	if in.Estado == entity.SolicitudRechazado {
		motivo = in.Motivo
	}
	ok, err := uc.repo.ActualizarEstado(id, in.Estado, aprobadoPor, motivo)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var notif *dto.ResultadoNotificacion
	if in.Estado == entity.SolicitudAprobado && in.MontoAprobado != nil {
		var fechaPlazo *time.Time
		if in.FechaPlazo != "" {
			t, err := time.Parse("2006-01-02", in.FechaPlazo)
			if err != nil {
				return nil, domain.ErrInvalidInput
			}
			fechaPlazo = &t
		}
		aprobacion := entity.Aprobacion{
			MontoAprobado: in.MontoAprobado,
			Tasa:          in.Tasa,
			Plazo:         in.Plazo,
			FechaPlazo:    fechaPlazo,
			Sucursal:      in.Sucursal,
		}
		if err := uc.repo.ActualizarAprobacion(id, aprobacion); err != nil {
			return nil, err
		}
		notif = uc.notificarContratos(ctx, s.ID, aprobacion, token)
	}

	actualizada, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return &dto.CambioEstadoSolicitudResponse{
		Data:      *toSolicitudResponse(actualizada),
		Contratos: notif,
	}, nil
}

// notificarContratos pide la creación del contrato. Best-effort: cualquier
// fallo se registra y se devuelve como advertencia, nunca como error.
func (uc *UseCase) notificarContratos(ctx context.Context, solicitudID int64, a entity.Aprobacion, token string) *dto.ResultadoNotificacion {
	var fechaPlazo string
	if a.FechaPlazo != nil {
		fechaPlazo = a.FechaPlazo.Format("2006-01-02")
	}
	req := dto.CrearContratoRequest{
		SolicitudID: solicitudID,
		Valor:       a.MontoAprobado,
		Tasa:        a.Tasa,
		Tiempo:      a.Plazo,
		FechaPlazo:  fechaPlazo,
		Sucursal:    a.Sucursal,
	}
	contrato, err := uc.contratos.CrearContrato(ctx, token, req)
	if err != nil {
		uc.log.Warn().Err(err).
			Int64("solicitud_id", solicitudID).
			Msg("la notificación a contratos falló; la aprobación queda en firme")
		return &dto.ResultadoNotificacion{Success: false, Error: err.Error()}
	}
	return &dto.ResultadoNotificacion{Success: true, Status: 201, Body: contrato}
}

func toSolicitudResponse(s *entity.Solicitud) *dto.SolicitudResponse {
	if s == nil {
		return nil
	}
	producto := s.Producto
	return &dto.SolicitudResponse{
		ID:             s.ID,
		UsuarioID:      s.UsuarioID,
		Nombre:         s.Cliente.Nombres,
		Apellidos:      s.Cliente.Apellidos,
		Cedula:         s.Cliente.Cedula,
		Username:       s.Cliente.Username,
		Estado:         s.Estado,
		FechaCreacion:  s.CreatedAt,
		FechaRespuesta: s.FechaRespuesta,
		Categoria:      s.Categoria,
		NombreProducto: s.NombreProducto,
		Descripcion:    s.Descripcion,
		Imagenes:       s.Producto.Imagenes,
		AprobadoPor:    s.AprobadoPor,
		MotivoRechazo:  s.MotivoRechazo,
		MontoAprobado:  s.MontoAprobado,
		Tasa:           s.Tasa,
		Plazo:          s.Plazo,
		FechaPlazo:     s.FechaPlazo,
		Sucursal:       s.Sucursal,
		Producto:       &producto,
	}
}
