package contratos_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casaempenos/prestamos-api/internal/application/contratos"
	"github.com/casaempenos/prestamos-api/internal/application/dto"
	"github.com/casaempenos/prestamos-api/internal/domain"
	"github.com/casaempenos/prestamos-api/internal/domain/entity"
	"github.com/casaempenos/prestamos-api/internal/domain/repository"
	"github.com/casaempenos/prestamos-api/pkg/jwt"
	"github.com/casaempenos/prestamos-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeContratoRepo struct {
	contratos map[int64]*entity.Contrato
	nextID    int64
	numero    int64
}

func newFakeContratoRepo() *fakeContratoRepo {
	return &fakeContratoRepo{contratos: map[int64]*entity.Contrato{}, nextID: 1, numero: 1000}
}

func (f *fakeContratoRepo) Create(c *entity.Contrato) error {
	c.ID = f.nextID
	f.nextID++
	copia := *c
	f.contratos[c.ID] = &copia
	return nil
}

func (f *fakeContratoRepo) GetByID(id int64) (*entity.Contrato, error) {
	c, ok := f.contratos[id]
	if !ok {
		return nil, nil
	}
	copia := *c
	return &copia, nil
}

func (f *fakeContratoRepo) List(filtros repository.ContratoFiltros) ([]*entity.Contrato, error) {
	var out []*entity.Contrato
	for _, c := range f.contratos {
		if filtros.ClienteID != nil && c.ClienteID != *filtros.ClienteID {
			continue
		}
		if filtros.Estado != "" && c.Estado != filtros.Estado {
			continue
		}
		copia := *c
		out = append(out, &copia)
	}
	return out, nil
}

func (f *fakeContratoRepo) Update(c *entity.Contrato) error {
	copia := *c
	f.contratos[c.ID] = &copia
	return nil
}

func (f *fakeContratoRepo) NextNumero() (int64, error) {
	f.numero++
	return f.numero, nil
}

type fakeSolicitudesSvc struct {
	solicitud *dto.SolicitudResponse
	err       error
}

func (f *fakeSolicitudesSvc) GetSolicitud(ctx context.Context, token string, id int64) (*dto.SolicitudResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.solicitud, nil
}

type fakeProductosSvc struct {
	creados     []dto.CrearProductoRequest
	estados     []string
	eliminados  []int64
	falloCrear  error
	falloEfecto error
}

func (f *fakeProductosSvc) CrearProducto(ctx context.Context, token string, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if f.falloCrear != nil {
		return nil, f.falloCrear
	}
	f.creados = append(f.creados, req)
	return &dto.ProductoResponse{ID: 77, Nombre: req.Nombre, Categoria: req.Categoria}, nil
}

func (f *fakeProductosSvc) CambiarEstado(ctx context.Context, token string, id int64, estado string) error {
	if f.falloEfecto != nil {
		return f.falloEfecto
	}
	f.estados = append(f.estados, estado)
	return nil
}

func (f *fakeProductosSvc) EliminarProducto(ctx context.Context, token string, id int64) error {
	if f.falloEfecto != nil {
		return f.falloEfecto
	}
	f.eliminados = append(f.eliminados, id)
	return nil
}

type accionRegistrada struct {
	contratoID int64
	productoID int64
	accion     string
}

type fakeRecorder struct {
	acciones []accionRegistrada
}

func (f *fakeRecorder) Registrar(contratoID, productoID int64, accion, errMsg string) {
	f.acciones = append(f.acciones, accionRegistrada{contratoID, productoID, accion})
}

type fakeTickets struct{}

func (fakeTickets) GenerarTicket(c *entity.Contrato) ([]byte, error) {
	return []byte("%PDF-1.7"), nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

func testJWTCfg() contratos.JWTConfig {
	return contratos.JWTConfig{Secret: "secret-de-test", ExpMinutes: 5, Issuer: "test"}
}

func solicitudAprobada() *dto.SolicitudResponse {
	return &dto.SolicitudResponse{
		ID:             3,
		UsuarioID:      10,
		Nombre:         "Juan",
		Apellidos:      "Pérez",
		Cedula:         "1712345678",
		Estado:         entity.SolicitudAprobado,
		NombreProducto: "Anillo de oro",
		Categoria:      "Joyas",
	}
}

func buildUseCase(sol *dto.SolicitudResponse) (*contratos.UseCase, *fakeContratoRepo, *fakeProductosSvc, *fakeRecorder) {
	repo := newFakeContratoRepo()
	productos := &fakeProductosSvc{}
	recorder := &fakeRecorder{}
	uc := contratos.NewUseCase(repo, &fakeSolicitudesSvc{solicitud: sol}, productos, recorder, fakeTickets{}, testJWTCfg(), testLogger())
	return uc, repo, productos, recorder
}

func perfilAdmin() jwt.Perfil {
	return jwt.Perfil{ID: 1, Username: "admin", Rol: jwt.RolAdmin, Nivel: 3}
}

// ──────────────────────────────────────────────────────────────────────────────
// Crear
// ──────────────────────────────────────────────────────────────────────────────

func TestCrearContrato_DesdeSolicitudAprobada(t *testing.T) {
	uc, repo, productos, _ := buildUseCase(solicitudAprobada())

	valor := decimal.NewFromInt(500)
	out, err := uc.Crear(context.Background(), perfilAdmin(), dto.CrearContratoRequest{
		SolicitudID: 3,
		Valor:       &valor,
		Sucursal:    "norte",
	})
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.Equal(t, entity.ContratoActivo, out.Estado)
	assert.Equal(t, int64(77), out.ProductoID, "el contrato referencia la garantía creada")
	assert.Equal(t, int64(1001), out.Numero, "el consecutivo sale de la secuencia")
	assert.Equal(t, "Juan Pérez", out.NombreCliente)
	require.NotNil(t, out.Producto)
	assert.Equal(t, "Anillo de oro", out.Producto.Nombre, "snapshot de la garantía")

	require.Len(t, productos.creados, 1)
	assert.Equal(t, entity.ProductoGarantia, productos.creados[0].Estado)
	require.NotNil(t, productos.creados[0].Metadata)
	assert.True(t, productos.creados[0].Metadata.OrigenContrato)
	assert.Len(t, repo.contratos, 1)
}

func TestCrearContrato_SolicitudNoAprobada(t *testing.T) {
	sol := solicitudAprobada()
	sol.Estado = entity.SolicitudPendiente
	uc, repo, productos, _ := buildUseCase(sol)

	valor := decimal.NewFromInt(500)
	_, err := uc.Crear(context.Background(), perfilAdmin(), dto.CrearContratoRequest{
		SolicitudID: 3,
		Valor:       &valor,
	})
	assert.ErrorIs(t, err, domain.ErrSolicitudNoAprobada)
	assert.Empty(t, productos.creados, "no debe crearse la garantía")
	assert.Empty(t, repo.contratos)
}

func TestCrearContrato_ValorInvalido(t *testing.T) {
	uc, _, _, _ := buildUseCase(solicitudAprobada())

	_, err := uc.Crear(context.Background(), perfilAdmin(), dto.CrearContratoRequest{SolicitudID: 3})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	cero := decimal.Zero
	_, err = uc.Crear(context.Background(), perfilAdmin(), dto.CrearContratoRequest{SolicitudID: 3, Valor: &cero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCrearContrato_TasaFueraDeRango(t *testing.T) {
	uc, _, _, _ := buildUseCase(solicitudAprobada())

	valor := decimal.NewFromInt(500)
	tasa := decimal.NewFromInt(150)
	_, err := uc.Crear(context.Background(), perfilAdmin(), dto.CrearContratoRequest{
		SolicitudID: 3,
		Valor:       &valor,
		Tasa:        &tasa,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Si la garantía no puede darse de alta en inventario, el contrato no se crea.
func TestCrearContrato_FalloEnProductos_Aborta(t *testing.T) {
	uc, repo, productos, _ := buildUseCase(solicitudAprobada())
	productos.falloCrear = errors.New("productos caído")

	valor := decimal.NewFromInt(500)
	_, err := uc.Crear(context.Background(), perfilAdmin(), dto.CrearContratoRequest{
		SolicitudID: 3,
		Valor:       &valor,
	})
	require.Error(t, err)
	assert.Empty(t, repo.contratos, "sin garantía en inventario no hay contrato")
}

// ──────────────────────────────────────────────────────────────────────────────
// CambiarEstado
// ──────────────────────────────────────────────────────────────────────────────

func crearContratoDePrueba(t *testing.T, uc *contratos.UseCase) int64 {
	t.Helper()
	valor := decimal.NewFromInt(500)
	out, err := uc.Crear(context.Background(), perfilAdmin(), dto.CrearContratoRequest{
		SolicitudID: 3,
		Valor:       &valor,
	})
	require.NoError(t, err)
	return out.ID
}

func TestCambiarEstadoContrato_EstadoFueraDeLista(t *testing.T) {
	uc, _, _, _ := buildUseCase(solicitudAprobada())
	id := crearContratoDePrueba(t, uc)

	_, err := uc.CambiarEstado(context.Background(), id, dto.CambiarEstadoContratoRequest{NuevoEstado: "X"}, perfilAdmin())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// R (rematado) pone la garantía a la venta.
func TestCambiarEstadoContrato_RematadoPoneGarantiaAVenta(t *testing.T) {
	uc, _, productos, recorder := buildUseCase(solicitudAprobada())
	id := crearContratoDePrueba(t, uc)

	out, err := uc.CambiarEstado(context.Background(), id, dto.CambiarEstadoContratoRequest{
		NuevoEstado: entity.ContratoRematado,
	}, perfilAdmin())
	require.NoError(t, err)

	assert.Equal(t, entity.ContratoRematado, out.Data.Estado)
	assert.Equal(t, entity.AccionSetAVenta, out.AccionProducto)
	assert.False(t, out.AccionPendiente)
	assert.Equal(t, []string{entity.ProductoAVenta}, productos.estados)
	assert.Empty(t, recorder.acciones)
}

// P (pagado) retira la garantía del inventario.
func TestCambiarEstadoContrato_PagadoEliminaGarantia(t *testing.T) {
	uc, _, productos, _ := buildUseCase(solicitudAprobada())
	id := crearContratoDePrueba(t, uc)

	out, err := uc.CambiarEstado(context.Background(), id, dto.CambiarEstadoContratoRequest{
		NuevoEstado: entity.ContratoPagado,
	}, perfilAdmin())
	require.NoError(t, err)

	assert.Equal(t, entity.AccionBorrarProducto, out.AccionProducto)
	assert.Equal(t, []int64{77}, productos.eliminados)
}

// V (vencido) no toca la garantía.
func TestCambiarEstadoContrato_VencidoSinEfecto(t *testing.T) {
	uc, _, productos, _ := buildUseCase(solicitudAprobada())
	id := crearContratoDePrueba(t, uc)

	out, err := uc.CambiarEstado(context.Background(), id, dto.CambiarEstadoContratoRequest{
		NuevoEstado: entity.ContratoVencido,
	}, perfilAdmin())
	require.NoError(t, err)

	assert.Empty(t, out.AccionProducto)
	assert.Empty(t, productos.estados)
	assert.Empty(t, productos.eliminados)
}

// El fallo del efecto no falla la petición: la acción queda encolada.
func TestCambiarEstadoContrato_FalloDelEfecto_Encola(t *testing.T) {
	uc, repo, productos, recorder := buildUseCase(solicitudAprobada())
	id := crearContratoDePrueba(t, uc)
	productos.falloEfecto = errors.New("timeout")

	out, err := uc.CambiarEstado(context.Background(), id, dto.CambiarEstadoContratoRequest{
		NuevoEstado: entity.ContratoRematado,
	}, perfilAdmin())
	require.NoError(t, err, "el fallo del efecto nunca es error del endpoint")

	assert.Equal(t, entity.ContratoRematado, out.Data.Estado, "el cambio de estado queda en firme")
	assert.True(t, out.AccionPendiente)
	require.Len(t, recorder.acciones, 1)
	assert.Equal(t, entity.AccionSetAVenta, recorder.acciones[0].accion)
	assert.Equal(t, int64(77), recorder.acciones[0].productoID)

	guardado, err := repo.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, entity.ContratoRematado, guardado.Estado)
}

// ──────────────────────────────────────────────────────────────────────────────
// Marcas y desembolso
// ──────────────────────────────────────────────────────────────────────────────

func TestFirmarYEntregar(t *testing.T) {
	uc, _, _, _ := buildUseCase(solicitudAprobada())
	id := crearContratoDePrueba(t, uc)

	out, err := uc.Firmar(id)
	require.NoError(t, err)
	assert.True(t, out.Firmado)

	out, err = uc.EntregarProducto(id)
	require.NoError(t, err)
	assert.True(t, out.ProductoEntregado)
	assert.True(t, out.Firmado, "la firma previa se conserva")
}

func TestDesembolsar_RequiereMontoPositivo(t *testing.T) {
	uc, _, _, _ := buildUseCase(solicitudAprobada())
	id := crearContratoDePrueba(t, uc)

	_, err := uc.Desembolsar(id, dto.DesembolsarRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	monto := decimal.NewFromInt(450)
	out, err := uc.Desembolsar(id, dto.DesembolsarRequest{Monto: &monto})
	require.NoError(t, err)
	assert.True(t, out.MontoEntregado)
	assert.True(t, out.MontoDesembolsado.Equal(monto))
}

// ──────────────────────────────────────────────────────────────────────────────
// Listar
// ──────────────────────────────────────────────────────────────────────────────

func TestListarContratos_MineSinPerfil(t *testing.T) {
	uc, _, _, _ := buildUseCase(solicitudAprobada())

	_, err := uc.Listar(dto.ListarContratosRequest{Mine: "true"}, nil)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestListarContratos_MineFiltraPorCliente(t *testing.T) {
	uc, _, _, _ := buildUseCase(solicitudAprobada())
	crearContratoDePrueba(t, uc)

	perfil := jwt.Perfil{ID: 10, Nivel: 1}
	out, err := uc.Listar(dto.ListarContratosRequest{Mine: "true"}, &perfil)
	require.NoError(t, err)
	require.Len(t, out, 1)

	ajeno := jwt.Perfil{ID: 999, Nivel: 1}
	out, err = uc.Listar(dto.ListarContratosRequest{Mine: "true"}, &ajeno)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestGenerarPDF_ContratoInexistente(t *testing.T) {
	uc, _, _, _ := buildUseCase(solicitudAprobada())

	pdf, err := uc.GenerarPDF(404)
	require.NoError(t, err)
	assert.Nil(t, pdf)
}
