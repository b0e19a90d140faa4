package productos_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casaempenos/prestamos-api/internal/application/dto"
	"github.com/casaempenos/prestamos-api/internal/application/productos"
	"github.com/casaempenos/prestamos-api/internal/domain"
	"github.com/casaempenos/prestamos-api/internal/domain/entity"
	"github.com/casaempenos/prestamos-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductoRepo struct {
	productos map[int64]*entity.Producto
	nextID    int64

	ultimosFiltros repository.ProductoFiltros
}

func newFakeProductoRepo() *fakeProductoRepo {
	return &fakeProductoRepo{productos: map[int64]*entity.Producto{}, nextID: 1}
}

func (f *fakeProductoRepo) Create(p *entity.Producto) error {
	p.ID = f.nextID
	f.nextID++
	copia := *p
	f.productos[p.ID] = &copia
	return nil
}

func (f *fakeProductoRepo) GetByID(id int64) (*entity.Producto, error) {
	p, ok := f.productos[id]
	if !ok {
		return nil, nil
	}
	copia := *p
	return &copia, nil
}

func (f *fakeProductoRepo) List(filtros repository.ProductoFiltros) ([]*entity.Producto, error) {
	f.ultimosFiltros = filtros
	var out []*entity.Producto
	for _, p := range f.productos {
		if filtros.Clase != nil && p.Clase != *filtros.Clase {
			continue
		}
		if filtros.Estado != "" && p.Estado != filtros.Estado {
			continue
		}
		copia := *p
		out = append(out, &copia)
	}
	return out, nil
}

func (f *fakeProductoRepo) Update(p *entity.Producto) error {
	copia := *p
	f.productos[p.ID] = &copia
	return nil
}

func (f *fakeProductoRepo) Delete(id int64) (bool, error) {
	if _, ok := f.productos[id]; !ok {
		return false, nil
	}
	delete(f.productos, id)
	return true, nil
}

func (f *fakeProductoRepo) ListCategorias() ([]repository.CategoriaResumen, error) {
	conteo := map[int]int{}
	for _, p := range f.productos {
		conteo[p.Clase]++
	}
	var out []repository.CategoriaResumen
	for clase, n := range conteo {
		out = append(out, repository.CategoriaResumen{Clase: clase, Cantidad: n})
	}
	return out, nil
}

func (f *fakeProductoRepo) ListSucursales() ([]repository.SucursalResumen, error) {
	conteo := map[string]int{}
	for _, p := range f.productos {
		conteo[p.Sucursal]++
	}
	var out []repository.SucursalResumen
	for s, n := range conteo {
		out = append(out, repository.SucursalResumen{Sucursal: s, Cantidad: n})
	}
	return out, nil
}

func buildUseCase() (*productos.UseCase, *fakeProductoRepo) {
	repo := newFakeProductoRepo()
	return productos.NewUseCase(repo), repo
}

// ──────────────────────────────────────────────────────────────────────────────
// Mapeo de categorías
// ──────────────────────────────────────────────────────────────────────────────

// El texto libre resuelve a la misma clase sin importar acentos ni mayúsculas.
func TestClasePorCategoria_IgnoraAcentosYMayusculas(t *testing.T) {
	casos := []struct {
		texto    string
		esperado int
	}{
		{"Joyas", entity.ClaseJoyas},
		{"joya", entity.ClaseJoyas},
		{"JOYAS", entity.ClaseJoyas},
		{"Mercancía", entity.ClaseMercancia},
		{"mercancia", entity.ClaseMercancia},
		{"MERCANCÍAS", entity.ClaseMercancia},
		{"Vehículos", entity.ClaseVehiculos},
		{"vehiculo", entity.ClaseVehiculos},
		{" vehículos ", entity.ClaseVehiculos},
		{"electrodomésticos", 0},
		{"", 0},
	}
	for _, c := range casos {
		assert.Equal(t, c.esperado, productos.ClasePorCategoria(c.texto), "categoria %q", c.texto)
	}
}

func TestNombreCategoria_Canonico(t *testing.T) {
	assert.Equal(t, "Joyas", productos.NombreCategoria(entity.ClaseJoyas))
	assert.Equal(t, "Mercancía", productos.NombreCategoria(entity.ClaseMercancia))
	assert.Equal(t, "Vehículos", productos.NombreCategoria(entity.ClaseVehiculos))
	assert.Equal(t, "", productos.NombreCategoria(99))
}

// ──────────────────────────────────────────────────────────────────────────────
// Crear
// ──────────────────────────────────────────────────────────────────────────────

func TestCrear_ValoresPorDefecto(t *testing.T) {
	uc, _ := buildUseCase()

	out, err := uc.Crear(dto.CrearProductoRequest{
		Nombre:    "Cadena de plata",
		Categoria: "joyas",
	})
	require.NoError(t, err)

	assert.Equal(t, "Joyas", out.Categoria, "la categoría se normaliza al nombre canónico")
	assert.Equal(t, entity.ClaseJoyas, out.Clase)
	assert.Equal(t, 1, out.Cantidad, "cantidad por defecto")
	assert.Equal(t, entity.ProductoGarantia, out.Estado, "estado por defecto")
	assert.True(t, out.Precio.Equal(decimal.Zero))
}

// Categoría desconocida cae en Joyas, el valor histórico por defecto.
func TestCrear_CategoriaDesconocidaCaeEnJoyas(t *testing.T) {
	uc, _ := buildUseCase()

	out, err := uc.Crear(dto.CrearProductoRequest{
		Nombre:    "Taladro",
		Categoria: "herramientas",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ClaseJoyas, out.Clase)
	assert.Equal(t, "Joyas", out.Categoria)
}

func TestCrear_CamposRequeridos(t *testing.T) {
	uc, _ := buildUseCase()

	_, err := uc.Crear(dto.CrearProductoRequest{Categoria: "joyas"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Crear(dto.CrearProductoRequest{Nombre: "Anillo"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCrear_EstadoYPrecioInvalidos(t *testing.T) {
	uc, _ := buildUseCase()

	_, err := uc.Crear(dto.CrearProductoRequest{Nombre: "Anillo", Categoria: "joyas", Estado: "vendido"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	negativo := decimal.NewFromInt(-10)
	_, err = uc.Crear(dto.CrearProductoRequest{Nombre: "Anillo", Categoria: "joyas", Precio: &negativo})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Actualizar / CambiarCantidad / CambiarEstado
// ──────────────────────────────────────────────────────────────────────────────

func crearProductoDePrueba(t *testing.T, uc *productos.UseCase) int64 {
	t.Helper()
	precio := decimal.NewFromInt(100)
	cantidad := 5
	out, err := uc.Crear(dto.CrearProductoRequest{
		Nombre:    "Anillo",
		Categoria: "joyas",
		Precio:    &precio,
		Cantidad:  &cantidad,
		Estado:    entity.ProductoAVenta,
		Sucursal:  "norte",
	})
	require.NoError(t, err)
	return out.ID
}

func TestActualizar_ParcialConservaLoDemas(t *testing.T) {
	uc, _ := buildUseCase()
	id := crearProductoDePrueba(t, uc)

	nombre := "Anillo de compromiso"
	out, err := uc.Actualizar(id, dto.ActualizarProductoRequest{Nombre: &nombre})
	require.NoError(t, err)

	assert.Equal(t, "Anillo de compromiso", out.Nombre)
	assert.Equal(t, 5, out.Cantidad, "los campos no enviados se conservan")
	assert.True(t, out.Precio.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "norte", out.Sucursal)
}

func TestActualizar_ProductoInexistente(t *testing.T) {
	uc, _ := buildUseCase()

	nombre := "x"
	out, err := uc.Actualizar(404, dto.ActualizarProductoRequest{Nombre: &nombre})
	require.NoError(t, err)
	assert.Nil(t, out)
}

// La cantidad es una escritura ciega: el valor enviado sobreescribe siempre.
func TestCambiarCantidad_SobrescrituraCiega(t *testing.T) {
	uc, _ := buildUseCase()
	id := crearProductoDePrueba(t, uc)

	dos := 2
	out, err := uc.CambiarCantidad(id, dto.CambiarCantidadRequest{Cantidad: &dos})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Cantidad)

	cero := 0
	out, err = uc.CambiarCantidad(id, dto.CambiarCantidadRequest{Cantidad: &cero})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Cantidad, "cero es válido; el borrado es decisión del llamador")

	negativa := -1
	_, err = uc.CambiarCantidad(id, dto.CambiarCantidadRequest{Cantidad: &negativa})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CambiarCantidad(id, dto.CambiarCantidadRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCambiarEstado_SoloCatalogo(t *testing.T) {
	uc, _ := buildUseCase()
	id := crearProductoDePrueba(t, uc)

	out, err := uc.CambiarEstado(id, entity.ProductoGarantia)
	require.NoError(t, err)
	assert.Equal(t, entity.ProductoGarantia, out.Estado)

	_, err = uc.CambiarEstado(id, "vendido")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEliminar(t *testing.T) {
	uc, repo := buildUseCase()
	id := crearProductoDePrueba(t, uc)

	ok, err := uc.Eliminar(id)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, repo.productos)

	ok, err = uc.Eliminar(id)
	require.NoError(t, err)
	assert.False(t, ok, "el segundo borrado reporta inexistente")
}

// ──────────────────────────────────────────────────────────────────────────────
// Listar
// ──────────────────────────────────────────────────────────────────────────────

func TestListar_FiltroDeCategoria(t *testing.T) {
	uc, _ := buildUseCase()
	crearProductoDePrueba(t, uc)
	_, err := uc.Crear(dto.CrearProductoRequest{Nombre: "Moto", Categoria: "vehículos"})
	require.NoError(t, err)

	out, err := uc.Listar(dto.ListarProductosRequest{Categoria: "VEHICULOS"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Moto", out[0].Nombre)

	// A diferencia del alta, un filtro con categoría desconocida es un error.
	_, err = uc.Listar(dto.ListarProductosRequest{Categoria: "herramientas"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListar_BusquedaLibrePliegaAcentos(t *testing.T) {
	uc, repo := buildUseCase()

	// El término llega al repositorio en minúsculas y sin diacríticos,
	// listo para comparar contra columnas plegadas.
	_, err := uc.Listar(dto.ListarProductosRequest{Texto: "  Aníllo de ORO "})
	require.NoError(t, err)
	assert.Equal(t, "anillo de oro", repo.ultimosFiltros.Texto)
}

func TestListar_PrecioInvalido(t *testing.T) {
	uc, _ := buildUseCase()

	_, err := uc.Listar(dto.ListarProductosRequest{PrecioMin: "abc"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListarCategorias_NombresCanonicos(t *testing.T) {
	uc, _ := buildUseCase()
	crearProductoDePrueba(t, uc)
	_, err := uc.Crear(dto.CrearProductoRequest{Nombre: "Moto", Categoria: "vehículos"})
	require.NoError(t, err)

	out, err := uc.ListarCategorias()
	require.NoError(t, err)
	require.Len(t, out, 2)
	nombres := []string{out[0].Nombre, out[1].Nombre}
	assert.Contains(t, nombres, "Joyas")
	assert.Contains(t, nombres, "Vehículos")
}
