package solicitudes_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casaempenos/prestamos-api/internal/application/dto"
	"github.com/casaempenos/prestamos-api/internal/application/solicitudes"
	"github.com/casaempenos/prestamos-api/internal/domain"
	"github.com/casaempenos/prestamos-api/internal/domain/entity"
	"github.com/casaempenos/prestamos-api/internal/domain/repository"
	"github.com/casaempenos/prestamos-api/pkg/jwt"
	"github.com/casaempenos/prestamos-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeSolicitudRepo struct {
	solicitudes map[int64]*entity.Solicitud
	nextID      int64

	creates      int
	aprobaciones []entity.Aprobacion
	estadosFijos []string
}

func newFakeSolicitudRepo() *fakeSolicitudRepo {
	return &fakeSolicitudRepo{solicitudes: map[int64]*entity.Solicitud{}, nextID: 1}
}

func (f *fakeSolicitudRepo) Create(s *entity.Solicitud) error {
	f.creates++
	s.ID = f.nextID
	f.nextID++
	copia := *s
	f.solicitudes[s.ID] = &copia
	return nil
}

func (f *fakeSolicitudRepo) GetByID(id int64) (*entity.Solicitud, error) {
	s, ok := f.solicitudes[id]
	if !ok {
		return nil, nil
	}
	copia := *s
	return &copia, nil
}

func (f *fakeSolicitudRepo) List(filtros repository.SolicitudFiltros) ([]*entity.Solicitud, int, error) {
	var out []*entity.Solicitud
	for _, s := range f.solicitudes {
		if filtros.UsuarioID != nil && s.UsuarioID != *filtros.UsuarioID {
			continue
		}
		if filtros.Estado != "" && s.Estado != filtros.Estado {
			continue
		}
		copia := *s
		out = append(out, &copia)
	}
	return out, len(out), nil
}

func (f *fakeSolicitudRepo) ListByEstado(estado string) ([]*entity.Solicitud, error) {
	var out []*entity.Solicitud
	for _, s := range f.solicitudes {
		if s.Estado == estado {
			copia := *s
			out = append(out, &copia)
		}
	}
	return out, nil
}

func (f *fakeSolicitudRepo) ActualizarEstado(id int64, estado string, aprobadoPor *int64, motivo string) (bool, error) {
	s, ok := f.solicitudes[id]
	if !ok {
		return false, nil
	}
	s.Estado = estado
	s.AprobadoPor = aprobadoPor
	s.MotivoRechazo = motivo
	f.estadosFijos = append(f.estadosFijos, estado)
	return true, nil
}

func (f *fakeSolicitudRepo) ActualizarAprobacion(id int64, a entity.Aprobacion) error {
	s, ok := f.solicitudes[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.MontoAprobado = a.MontoAprobado
	s.Tasa = a.Tasa
	s.Plazo = a.Plazo
	s.FechaPlazo = a.FechaPlazo
	s.Sucursal = a.Sucursal
	f.aprobaciones = append(f.aprobaciones, a)
	return nil
}

type fakeContratosClient struct {
	llamadas int
	fallo    error
}

func (f *fakeContratosClient) CrearContrato(ctx context.Context, token string, req dto.CrearContratoRequest) (*dto.ContratoResponse, error) {
	f.llamadas++
	if f.fallo != nil {
		return nil, f.fallo
	}
	return &dto.ContratoResponse{ID: 9, SolicitudID: req.SolicitudID}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

func buildUseCase() (*solicitudes.UseCase, *fakeSolicitudRepo, *fakeContratosClient) {
	repo := newFakeSolicitudRepo()
	contratos := &fakeContratosClient{}
	return solicitudes.NewUseCase(repo, contratos, testLogger()), repo, contratos
}

func perfilCliente() jwt.Perfil {
	return jwt.Perfil{
		ID:        10,
		Cedula:    "1712345678",
		Nombres:   "Juan",
		Apellidos: "Pérez",
		Username:  "jperez",
		Rol:       jwt.RolCliente,
		Nivel:     1,
	}
}

func perfilAdmin() jwt.Perfil {
	return jwt.Perfil{ID: 1, Username: "admin", Rol: jwt.RolAdmin, Nivel: 3}
}

// ──────────────────────────────────────────────────────────────────────────────
// Crear
// ──────────────────────────────────────────────────────────────────────────────

func TestCrear_IdentidadDelToken(t *testing.T) {
	uc, repo, _ := buildUseCase()

	out, err := uc.Crear(perfilCliente(), dto.CrearSolicitudRequest{
		NombreProducto: "Anillo de oro 18k",
		Descripcion:    "Con piedra",
		Categoria:      "joyas",
	})
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.Equal(t, "1712345678", out.Cedula, "la cédula debe salir del token")
	assert.Equal(t, "Juan", out.Nombre)
	assert.Equal(t, entity.SolicitudPendiente, out.Estado)
	assert.Equal(t, 1, repo.creates)
}

// Los campos del body completan lo que el token no trae.
func TestCrear_BodyCompletaIdentidadFaltante(t *testing.T) {
	uc, _, _ := buildUseCase()

	perfil := jwt.Perfil{ID: 11, Nivel: 1} // token sin identidad
	out, err := uc.Crear(perfil, dto.CrearSolicitudRequest{
		Cedula:         "0911111111",
		Nombre:         "María",
		Apellidos:      "López",
		Username:       "mlopez",
		NombreProducto: "Laptop",
	})
	require.NoError(t, err)
	assert.Equal(t, "0911111111", out.Cedula)
	assert.Equal(t, "mlopez", out.Username)
}

// Sin cédula ni en el token ni en el body no se persiste nada.
func TestCrear_SinIdentidad_NoPersiste(t *testing.T) {
	uc, repo, _ := buildUseCase()

	out, err := uc.Crear(jwt.Perfil{ID: 11, Nivel: 1}, dto.CrearSolicitudRequest{
		Nombre:         "María",
		Username:       "mlopez",
		NombreProducto: "Laptop",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, out)
	assert.Equal(t, 0, repo.creates, "no debe persistirse la solicitud incompleta")
}

func TestCrear_SinNombreProducto_Rechaza(t *testing.T) {
	uc, repo, _ := buildUseCase()

	_, err := uc.Crear(perfilCliente(), dto.CrearSolicitudRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, repo.creates)
}

// Se aceptan imagen1..imagen3 como alternativa al arreglo, tope de 3.
func TestCrear_ImagenesCamposIndividuales(t *testing.T) {
	uc, _, _ := buildUseCase()

	out, err := uc.Crear(perfilCliente(), dto.CrearSolicitudRequest{
		NombreProducto: "Reloj",
		Imagen1:        "a.jpg",
		Imagen3:        "c.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg", "c.jpg"}, out.Imagenes)
}

func TestCrear_ImagenesRecortadasATres(t *testing.T) {
	uc, _, _ := buildUseCase()

	out, err := uc.Crear(perfilCliente(), dto.CrearSolicitudRequest{
		NombreProducto: "Reloj",
		Imagenes:       []string{"1.jpg", "2.jpg", "3.jpg", "4.jpg"},
	})
	require.NoError(t, err)
	assert.Len(t, out.Imagenes, 3)
}

// ──────────────────────────────────────────────────────────────────────────────
// GetByID / Listar
// ──────────────────────────────────────────────────────────────────────────────

func TestGetByID_ClienteNoVeAjenas(t *testing.T) {
	uc, _, _ := buildUseCase()

	_, err := uc.Crear(perfilCliente(), dto.CrearSolicitudRequest{NombreProducto: "Anillo"})
	require.NoError(t, err)

	otro := jwt.Perfil{ID: 99, Cedula: "0999999999", Nombres: "Otro", Username: "otro", Nivel: 1}
	_, err = uc.GetByID(1, otro)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// El personal sí la ve
	out, err := uc.GetByID(1, perfilAdmin())
	require.NoError(t, err)
	assert.NotNil(t, out)
}

func TestListar_ClienteRestringidoASusSolicitudes(t *testing.T) {
	uc, _, _ := buildUseCase()

	_, err := uc.Crear(perfilCliente(), dto.CrearSolicitudRequest{NombreProducto: "Anillo"})
	require.NoError(t, err)
	otro := jwt.Perfil{ID: 99, Cedula: "0999999999", Nombres: "Otro", Username: "otro", Nivel: 1}
	_, err = uc.Crear(otro, dto.CrearSolicitudRequest{NombreProducto: "Reloj"})
	require.NoError(t, err)

	// Aunque pida usuario_id ajeno, el cliente solo ve lo suyo
	out, err := uc.Listar(dto.ListarSolicitudesRequest{UsuarioID: "99"}, perfilCliente())
	require.NoError(t, err)
	require.Len(t, out.Data, 1)
	assert.Equal(t, int64(10), out.Data[0].UsuarioID)
}

func TestListar_EstadoInvalidoRechazado(t *testing.T) {
	uc, _, _ := buildUseCase()

	_, err := uc.Listar(dto.ListarSolicitudesRequest{Estado: "Inventado"}, perfilAdmin())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListar_PaginacionPorDefecto(t *testing.T) {
	uc, _, _ := buildUseCase()

	out, err := uc.Listar(dto.ListarSolicitudesRequest{}, perfilAdmin())
	require.NoError(t, err)
	assert.Equal(t, 1, out.Meta.Page)
	assert.Equal(t, 50, out.Meta.Limit)

	out, err = uc.Listar(dto.ListarSolicitudesRequest{Limit: 9999}, perfilAdmin())
	require.NoError(t, err)
	assert.Equal(t, 500, out.Meta.Limit, "el límite se recorta al tope")
}

// ──────────────────────────────────────────────────────────────────────────────
// CambiarEstado
// ──────────────────────────────────────────────────────────────────────────────

func crearSolicitudDePrueba(t *testing.T, uc *solicitudes.UseCase) int64 {
	t.Helper()
	out, err := uc.Crear(perfilCliente(), dto.CrearSolicitudRequest{NombreProducto: "Anillo"})
	require.NoError(t, err)
	return out.ID
}

func TestCambiarEstado_EstadoFueraDeLista(t *testing.T) {
	uc, repo, _ := buildUseCase()
	id := crearSolicitudDePrueba(t, uc)

	_, err := uc.CambiarEstado(context.Background(), id, dto.CambiarEstadoSolicitudRequest{
		Estado: "Cancelado",
	}, perfilAdmin(), "tok")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, repo.estadosFijos, "no debe tocarse la solicitud")
}

func TestCambiarEstado_RechazoGuardaMotivo(t *testing.T) {
	uc, _, contratos := buildUseCase()
	id := crearSolicitudDePrueba(t, uc)

	out, err := uc.CambiarEstado(context.Background(), id, dto.CambiarEstadoSolicitudRequest{
		Estado: entity.SolicitudRechazado,
		Motivo: "garantía insuficiente",
	}, perfilAdmin(), "tok")
	require.NoError(t, err)
	assert.Equal(t, entity.SolicitudRechazado, out.Data.Estado)
	assert.Equal(t, "garantía insuficiente", out.Data.MotivoRechazo)
	assert.Equal(t, 0, contratos.llamadas, "un rechazo no notifica a contratos")
}

// Aprobación sin monto no dispara la notificación a Contratos.
func TestCambiarEstado_AprobacionSinMonto_NoNotifica(t *testing.T) {
	uc, repo, contratos := buildUseCase()
	id := crearSolicitudDePrueba(t, uc)

	out, err := uc.CambiarEstado(context.Background(), id, dto.CambiarEstadoSolicitudRequest{
		Estado: entity.SolicitudAprobado,
	}, perfilAdmin(), "tok")
	require.NoError(t, err)
	assert.Equal(t, entity.SolicitudAprobado, out.Data.Estado)
	assert.Nil(t, out.Contratos)
	assert.Equal(t, 0, contratos.llamadas)
	assert.Empty(t, repo.aprobaciones)
}

func TestCambiarEstado_AprobacionConMonto_Notifica(t *testing.T) {
	uc, repo, contratos := buildUseCase()
	id := crearSolicitudDePrueba(t, uc)

	monto := decimal.NewFromInt(500)
	tasa := decimal.NewFromInt(10)
	plazo := 30
	out, err := uc.CambiarEstado(context.Background(), id, dto.CambiarEstadoSolicitudRequest{
		Estado:        entity.SolicitudAprobado,
		MontoAprobado: &monto,
		Tasa:          &tasa,
		Plazo:         &plazo,
		Sucursal:      "norte",
	}, perfilAdmin(), "tok")
	require.NoError(t, err)

	require.Len(t, repo.aprobaciones, 1)
	assert.True(t, repo.aprobaciones[0].MontoAprobado.Equal(monto))
	assert.Equal(t, 1, contratos.llamadas)
	require.NotNil(t, out.Contratos)
	assert.True(t, out.Contratos.Success)
}

// El fallo al notificar no revierte la aprobación: viaja como advertencia.
func TestCambiarEstado_FalloDeContratos_NoRevierte(t *testing.T) {
	uc, repo, contratos := buildUseCase()
	contratos.fallo = errors.New("connection refused")
	id := crearSolicitudDePrueba(t, uc)

	monto := decimal.NewFromInt(500)
	out, err := uc.CambiarEstado(context.Background(), id, dto.CambiarEstadoSolicitudRequest{
		Estado:        entity.SolicitudAprobado,
		MontoAprobado: &monto,
	}, perfilAdmin(), "tok")
	require.NoError(t, err, "el fallo de la notificación nunca es error del endpoint")

	assert.Equal(t, entity.SolicitudAprobado, out.Data.Estado, "la aprobación queda en firme")
	require.NotNil(t, out.Contratos)
	assert.False(t, out.Contratos.Success)
	assert.Contains(t, out.Contratos.Error, "connection refused")
	require.Len(t, repo.aprobaciones, 1, "los términos quedan persistidos")
}

func TestCambiarEstado_SolicitudInexistente(t *testing.T) {
	uc, _, _ := buildUseCase()

	out, err := uc.CambiarEstado(context.Background(), 404, dto.CambiarEstadoSolicitudRequest{
		Estado: entity.SolicitudAprobado,
	}, perfilAdmin(), "tok")
	require.NoError(t, err)
	assert.Nil(t, out, "solicitud inexistente se traduce en 404 en el handler")
}
