package productos

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/casaempenos/prestamos-api/internal/application/dto"
	"github.com/casaempenos/prestamos-api/internal/domain"
	"github.com/casaempenos/prestamos-api/internal/domain/entity"
	"github.com/casaempenos/prestamos-api/internal/domain/repository"
)

// UseCase casos de uso del inventario de artículos.
type UseCase struct {
	repo repository.ProductoRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.ProductoRepository) *UseCase {
	return &UseCase{repo: repo}
}

// Crear da de alta un artículo. La categoría en texto libre se mapea a la
// clase numérica; cantidad por defecto 1, estado por defecto garantia.
func (uc *UseCase) Crear(in dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if in.Nombre == "" || in.Categoria == "" {
		return nil, domain.ErrInvalidInput
	}
	// Categoría desconocida cae en Joyas, el valor histórico por defecto.
	clase := ClasePorCategoria(in.Categoria)
	if clase == 0 {
		clase = entity.ClaseJoyas
	}
	estado := in.Estado
	if estado == "" {
		estado = entity.ProductoGarantia
	}
	if estado != entity.ProductoGarantia && estado != entity.ProductoAVenta {
		return nil, domain.ErrInvalidInput
	}
	cantidad := 1
	if in.Cantidad != nil {
		if *in.Cantidad < 0 {
			return nil, domain.ErrInvalidInput
		}
		cantidad = *in.Cantidad
	}
	precio := decimal.Zero
	if in.Precio != nil {
		if in.Precio.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		precio = *in.Precio
	}
	now := time.Now()
	p := &entity.Producto{
		Nombre:      in.Nombre,
		Descripcion: in.Descripcion,
		Categoria:   NombreCategoria(clase),
		Clase:       clase,
		Precio:      precio,
		Cantidad:    cantidad,
		Estado:      estado,
		Imagenes:    in.Imagenes,
		Sucursal:    in.Sucursal,
		Metadata:    in.Metadata,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(p); err != nil {
		return nil, err
	}
	return toProductoResponse(p), nil
}

// GetByID obtiene un artículo por ID.
func (uc *UseCase) GetByID(id int64) (*dto.ProductoResponse, error) {
	p, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	return toProductoResponse(p), nil
}

// Listar lista artículos según los filtros recibidos.
func (uc *UseCase) Listar(in dto.ListarProductosRequest) ([]dto.ProductoResponse, error) {
	f := repository.ProductoFiltros{
		Estado:    in.Estado,
		Sucursal:  in.Sucursal,
		SinPrecio: in.SinPrecio == "true" || in.SinPrecio == "1",
		// El término se pliega igual que las columnas en el repositorio,
		// para que "Anillo" encuentre "aníllo" y viceversa.
		Texto: normalizar(in.Texto),
	}
	if in.Categoria != "" {
		clase := ClasePorCategoria(in.Categoria)
		if clase == 0 {
			return nil, domain.ErrInvalidInput
		}
		f.Clase = &clase
	}
	if in.PrecioMin != "" {
		min, err := decimal.NewFromString(in.PrecioMin)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		f.PrecioMin = &min
	}
	if in.PrecioMax != "" {
		max, err := decimal.NewFromString(in.PrecioMax)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		f.PrecioMax = &max
	}
	productos, err := uc.repo.List(f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductoResponse, 0, len(productos))
	for _, p := range productos {
		out = append(out, *toProductoResponse(p))
	}
	return out, nil
}

// Actualizar aplica una actualización parcial sobre los campos presentes.
func (uc *UseCase) Actualizar(id int64, in dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	if in.Nombre != nil {
		p.Nombre = *in.Nombre
	}
	if in.Descripcion != nil {
		p.Descripcion = *in.Descripcion
	}
	if in.Categoria != nil {
		clase := ClasePorCategoria(*in.Categoria)
		if clase == 0 {
			clase = entity.ClaseJoyas
		}
		p.Categoria = NombreCategoria(clase)
		p.Clase = clase
	}
	if in.Precio != nil {
		if in.Precio.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		p.Precio = *in.Precio
	}
	if in.Cantidad != nil {
		if *in.Cantidad < 0 {
			return nil, domain.ErrInvalidInput
		}
		p.Cantidad = *in.Cantidad
	}
	if in.Estado != nil {
		if *in.Estado != entity.ProductoGarantia && *in.Estado != entity.ProductoAVenta {
			return nil, domain.ErrInvalidInput
		}
		p.Estado = *in.Estado
	}
	if in.Imagenes != nil {
		p.Imagenes = in.Imagenes
	}
	if in.Sucursal != nil {
		p.Sucursal = *in.Sucursal
	}
	if in.Metadata != nil {
		p.Metadata = in.Metadata
	}
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(p); err != nil {
		return nil, err
	}
	return toProductoResponse(p), nil
}

// CambiarEstado fija el estado del artículo (garantia / a_venta).
func (uc *UseCase) CambiarEstado(id int64, estado string) (*dto.ProductoResponse, error) {
	if estado != entity.ProductoGarantia && estado != entity.ProductoAVenta {
		return nil, domain.ErrInvalidInput
	}
	p, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	p.Estado = estado
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(p); err != nil {
		return nil, err
	}
	return toProductoResponse(p), nil
}

// CambiarCantidad sobreescribe la cantidad disponible del artículo.
// Es una escritura ciega: el último escritor gana.
func (uc *UseCase) CambiarCantidad(id int64, in dto.CambiarCantidadRequest) (*dto.ProductoResponse, error) {
	if in.Cantidad == nil || *in.Cantidad < 0 {
		return nil, domain.ErrInvalidInput
	}
	p, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	p.Cantidad = *in.Cantidad
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(p); err != nil {
		return nil, err
	}
	return toProductoResponse(p), nil
}

// Eliminar borra el artículo (borrado físico). Devuelve false si no existe.
func (uc *UseCase) Eliminar(id int64) (bool, error) {
	return uc.repo.Delete(id)
}

// ListarCategorias devuelve el agregado de artículos por categoría.
func (uc *UseCase) ListarCategorias() ([]dto.CategoriaResponse, error) {
	categorias, err := uc.repo.ListCategorias()
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoriaResponse, 0, len(categorias))
	for _, c := range categorias {
		nombre := NombreCategoria(c.Clase)
		if nombre == "" {
			nombre = c.Nombre
		}
		out = append(out, dto.CategoriaResponse{ID: c.Clase, Nombre: nombre, Cantidad: c.Cantidad})
	}
	return out, nil
}

// ListarSucursales devuelve el agregado de artículos por sucursal.
func (uc *UseCase) ListarSucursales() ([]dto.SucursalResponse, error) {
	sucursales, err := uc.repo.ListSucursales()
	if err != nil {
		return nil, err
	}
	out := make([]dto.SucursalResponse, 0, len(sucursales))
	for _, s := range sucursales {
		out = append(out, dto.SucursalResponse{Nombre: s.Sucursal, Cantidad: s.Cantidad})
	}
	return out, nil
}

func toProductoResponse(p *entity.Producto) *dto.ProductoResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductoResponse{
		ID:          p.ID,
		Nombre:      p.Nombre,
		Descripcion: p.Descripcion,
		Categoria:   p.Categoria,
		Clase:       p.Clase,
		Precio:      p.Precio,
		Cantidad:    p.Cantidad,
		Estado:      p.Estado,
		Imagenes:    p.Imagenes,
		Sucursal:    p.Sucursal,
		Metadata:    p.Metadata,
		CreatedAt:   p.CreatedAt,
	}
}
