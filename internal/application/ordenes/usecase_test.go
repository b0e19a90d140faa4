package ordenes_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casaempenos/prestamos-api/internal/application/dto"
	"github.com/casaempenos/prestamos-api/internal/application/ordenes"
	"github.com/casaempenos/prestamos-api/internal/domain"
	"github.com/casaempenos/prestamos-api/internal/domain/entity"
	"github.com/casaempenos/prestamos-api/pkg/jwt"
	"github.com/casaempenos/prestamos-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeOrdenRepo struct {
	ordenes map[int64]*entity.Orden
	nextID  int64
}

func newFakeOrdenRepo() *fakeOrdenRepo {
	return &fakeOrdenRepo{ordenes: map[int64]*entity.Orden{}, nextID: 1}
}

func (f *fakeOrdenRepo) Create(o *entity.Orden) error {
	o.ID = f.nextID
	f.nextID++
	copia := *o
	f.ordenes[o.ID] = &copia
	return nil
}

func (f *fakeOrdenRepo) GetByID(id int64) (*entity.Orden, error) {
	o, ok := f.ordenes[id]
	if !ok {
		return nil, nil
	}
	copia := *o
	return &copia, nil
}

func (f *fakeOrdenRepo) List() ([]*entity.Orden, error) {
	var out []*entity.Orden
	for _, o := range f.ordenes {
		copia := *o
		out = append(out, &copia)
	}
	return out, nil
}

func (f *fakeOrdenRepo) ListByUsuario(usuarioID int64) ([]*entity.Orden, error) {
	var out []*entity.Orden
	for _, o := range f.ordenes {
		if o.UsuarioID == usuarioID {
			copia := *o
			out = append(out, &copia)
		}
	}
	return out, nil
}

func (f *fakeOrdenRepo) UpdateEstado(id int64, estado string) (bool, error) {
	o, ok := f.ordenes[id]
	if !ok {
		return false, nil
	}
	o.Estado = estado
	return true, nil
}

type fakeUsuariosSvc struct {
	fallo error
}

func (f *fakeUsuariosSvc) GetUsuario(ctx context.Context, token string, id int64) (*dto.UsuarioResponse, error) {
	if f.fallo != nil {
		return nil, f.fallo
	}
	return &dto.UsuarioResponse{
		ID:       id,
		Email:    "juan@example.com",
		Telefono: "0991234567",
	}, nil
}

type fakeProductosSvc struct {
	stock      map[int64]*dto.ProductoResponse
	cantidades map[int64]int
	eliminados []int64
	falloStock error
}

func newFakeProductosSvc() *fakeProductosSvc {
	return &fakeProductosSvc{
		stock:      map[int64]*dto.ProductoResponse{},
		cantidades: map[int64]int{},
	}
}

func (f *fakeProductosSvc) agregar(id int64, precio int64, cantidad int) {
	f.stock[id] = &dto.ProductoResponse{
		ID:       id,
		Nombre:   "Artículo",
		Precio:   decimal.NewFromInt(precio),
		Cantidad: cantidad,
	}
}

func (f *fakeProductosSvc) GetProducto(ctx context.Context, token string, id int64) (*dto.ProductoResponse, error) {
	p, ok := f.stock[id]
	if !ok {
		return nil, errors.New("producto no encontrado")
	}
	copia := *p
	return &copia, nil
}

func (f *fakeProductosSvc) CambiarCantidad(ctx context.Context, token string, id int64, cantidad int) error {
	if f.falloStock != nil {
		return f.falloStock
	}
	f.cantidades[id] = cantidad
	return nil
}

func (f *fakeProductosSvc) EliminarProducto(ctx context.Context, token string, id int64) error {
	if f.falloStock != nil {
		return f.falloStock
	}
	f.eliminados = append(f.eliminados, id)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

func buildUseCase() (*ordenes.UseCase, *fakeOrdenRepo, *fakeUsuariosSvc, *fakeProductosSvc) {
	repo := newFakeOrdenRepo()
	usuarios := &fakeUsuariosSvc{}
	productos := newFakeProductosSvc()
	return ordenes.NewUseCase(repo, usuarios, productos, testLogger()), repo, usuarios, productos
}

func perfilComprador() jwt.Perfil {
	return jwt.Perfil{ID: 10, Cedula: "1712345678", Nombres: "Juan", Apellidos: "Pérez", Username: "jperez", Nivel: 1}
}

func perfilEmpleado() jwt.Perfil {
	return jwt.Perfil{ID: 2, Username: "staff", Rol: jwt.RolEmpleado, Nivel: 2}
}

// ──────────────────────────────────────────────────────────────────────────────
// Crear
// ──────────────────────────────────────────────────────────────────────────────

func TestCrearOrden_CongelaPreciosYDescuentaStock(t *testing.T) {
	uc, repo, _, productos := buildUseCase()
	productos.agregar(1, 100, 5)
	productos.agregar(2, 50, 3)

	out, err := uc.Crear(context.Background(), perfilComprador(), "tok", dto.CrearOrdenRequest{
		Items: []dto.ItemOrdenRequest{{ID: 1, Cantidad: 2}, {ID: 2, Cantidad: 1}},
	})
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.Equal(t, entity.OrdenCreada, out.Estado)
	assert.True(t, out.Total.Equal(decimal.NewFromInt(250)), "2x100 + 1x50")
	require.Len(t, out.Productos, 2)
	assert.True(t, out.Productos[0].Subtotal.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, "juan@example.com", out.Cliente.Email, "el snapshot completa contacto desde Usuarios")

	assert.Equal(t, 3, productos.cantidades[1], "el stock se descuenta tras crear la orden")
	assert.Equal(t, 2, productos.cantidades[2])
	assert.Len(t, repo.ordenes, 1)
}

func TestCrearOrden_SinItems(t *testing.T) {
	uc, _, _, _ := buildUseCase()

	_, err := uc.Crear(context.Background(), perfilComprador(), "tok", dto.CrearOrdenRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCrearOrden_ItemDuplicadoOCantidadInvalida(t *testing.T) {
	uc, _, _, productos := buildUseCase()
	productos.agregar(1, 100, 5)

	_, err := uc.Crear(context.Background(), perfilComprador(), "tok", dto.CrearOrdenRequest{
		Items: []dto.ItemOrdenRequest{{ID: 1, Cantidad: 1}, {ID: 1, Cantidad: 2}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "artículo repetido")

	_, err = uc.Crear(context.Background(), perfilComprador(), "tok", dto.CrearOrdenRequest{
		Items: []dto.ItemOrdenRequest{{ID: 1, Cantidad: 0}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad no positiva")
}

// Stock insuficiente en cualquier línea aborta sin escribir ni descontar nada.
func TestCrearOrden_StockInsuficiente_SinEfectos(t *testing.T) {
	uc, repo, _, productos := buildUseCase()
	productos.agregar(1, 100, 5)
	productos.agregar(2, 50, 1)

	_, err := uc.Crear(context.Background(), perfilComprador(), "tok", dto.CrearOrdenRequest{
		Items: []dto.ItemOrdenRequest{{ID: 1, Cantidad: 2}, {ID: 2, Cantidad: 4}},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Empty(t, repo.ordenes, "no se persiste la orden")
	assert.Empty(t, productos.cantidades, "no se descuenta stock de ninguna línea")
	assert.Empty(t, productos.eliminados)
}

// Si Usuarios no responde, la orden no se crea.
func TestCrearOrden_FalloDeUsuarios_Aborta(t *testing.T) {
	uc, repo, usuarios, productos := buildUseCase()
	productos.agregar(1, 100, 5)
	usuarios.fallo = errors.New("usuarios caído")

	_, err := uc.Crear(context.Background(), perfilComprador(), "tok", dto.CrearOrdenRequest{
		Items: []dto.ItemOrdenRequest{{ID: 1, Cantidad: 1}},
	})
	require.Error(t, err)
	assert.Empty(t, repo.ordenes)
}

// El artículo que queda en cero se retira del inventario.
func TestCrearOrden_AgotadoSeElimina(t *testing.T) {
	uc, _, _, productos := buildUseCase()
	productos.agregar(1, 100, 2)

	_, err := uc.Crear(context.Background(), perfilComprador(), "tok", dto.CrearOrdenRequest{
		Items: []dto.ItemOrdenRequest{{ID: 1, Cantidad: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, productos.eliminados)
	assert.NotContains(t, productos.cantidades, int64(1))
}

// El fallo al descontar stock no falla la orden ya confirmada.
func TestCrearOrden_FalloAlDescontar_OrdenQueda(t *testing.T) {
	uc, repo, _, productos := buildUseCase()
	productos.agregar(1, 100, 5)
	productos.falloStock = errors.New("timeout")

	out, err := uc.Crear(context.Background(), perfilComprador(), "tok", dto.CrearOrdenRequest{
		Items: []dto.ItemOrdenRequest{{ID: 1, Cantidad: 1}},
	})
	require.NoError(t, err, "la orden ya confirmada no se revierte")
	assert.NotNil(t, out)
	assert.Len(t, repo.ordenes, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// GetByID / Listar / CambiarEstado
// ──────────────────────────────────────────────────────────────────────────────

func crearOrdenDePrueba(t *testing.T, uc *ordenes.UseCase, productos *fakeProductosSvc) int64 {
	t.Helper()
	productos.agregar(1, 100, 5)
	out, err := uc.Crear(context.Background(), perfilComprador(), "tok", dto.CrearOrdenRequest{
		Items: []dto.ItemOrdenRequest{{ID: 1, Cantidad: 1}},
	})
	require.NoError(t, err)
	return out.ID
}

func TestGetByID_DuenoYPersonal(t *testing.T) {
	uc, _, _, productos := buildUseCase()
	id := crearOrdenDePrueba(t, uc, productos)

	out, err := uc.GetByID(id, perfilComprador())
	require.NoError(t, err)
	assert.NotNil(t, out)

	otro := jwt.Perfil{ID: 99, Nivel: 1}
	_, err = uc.GetByID(id, otro)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	out, err = uc.GetByID(id, perfilEmpleado())
	require.NoError(t, err)
	assert.NotNil(t, out)
}

func TestListar_ClienteSoloLasSuyas(t *testing.T) {
	uc, repo, _, productos := buildUseCase()
	crearOrdenDePrueba(t, uc, productos)
	require.NoError(t, repo.Create(&entity.Orden{UsuarioID: 99, Estado: entity.OrdenCreada}))

	propias, err := uc.Listar(perfilComprador(), false)
	require.NoError(t, err)
	assert.Len(t, propias, 1)

	todas, err := uc.Listar(perfilEmpleado(), false)
	require.NoError(t, err)
	assert.Len(t, todas, 2)
}

func TestListar_MineRestringeTambienAlPersonal(t *testing.T) {
	uc, repo, _, productos := buildUseCase()
	crearOrdenDePrueba(t, uc, productos)
	require.NoError(t, repo.Create(&entity.Orden{UsuarioID: perfilEmpleado().ID, Estado: entity.OrdenCreada}))

	// Con mine el empleado ve solo las suyas, no las de todos.
	propias, err := uc.Listar(perfilEmpleado(), true)
	require.NoError(t, err)
	require.Len(t, propias, 1)
	assert.Equal(t, perfilEmpleado().ID, propias[0].UsuarioID)

	todas, err := uc.Listar(perfilEmpleado(), false)
	require.NoError(t, err)
	assert.Len(t, todas, 2)
}

func TestCambiarEstado_DuenoSoloCancela(t *testing.T) {
	uc, _, _, productos := buildUseCase()
	id := crearOrdenDePrueba(t, uc, productos)

	_, err := uc.CambiarEstado(id, entity.OrdenPagada, perfilComprador())
	assert.ErrorIs(t, err, domain.ErrForbidden, "el dueño no puede marcar pagada")

	out, err := uc.CambiarEstado(id, entity.OrdenCancelada, perfilComprador())
	require.NoError(t, err)
	assert.Equal(t, entity.OrdenCancelada, out.Estado)
}

func TestCambiarEstado_PersonalCualquierEstado(t *testing.T) {
	uc, _, _, productos := buildUseCase()
	id := crearOrdenDePrueba(t, uc, productos)

	out, err := uc.CambiarEstado(id, entity.OrdenEnviada, perfilEmpleado())
	require.NoError(t, err)
	assert.Equal(t, entity.OrdenEnviada, out.Estado)
}

func TestCambiarEstado_EstadoFueraDeCatalogo(t *testing.T) {
	uc, _, _, productos := buildUseCase()
	id := crearOrdenDePrueba(t, uc, productos)

	_, err := uc.CambiarEstado(id, "devuelta", perfilEmpleado())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
