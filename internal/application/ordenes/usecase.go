package ordenes

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/casaempenos/prestamos-api/internal/application/dto"
	"github.com/casaempenos/prestamos-api/internal/domain"
	"github.com/casaempenos/prestamos-api/internal/domain/entity"
	"github.com/casaempenos/prestamos-api/internal/domain/repository"
	"github.com/casaempenos/prestamos-api/pkg/jwt"
	"github.com/casaempenos/prestamos-api/pkg/logger"
)

// UseCase casos de uso de órdenes de compra de la tienda.
type UseCase struct {
	repo      repository.OrdenRepository
	usuarios  UsuariosService
	productos ProductosService
	log       *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.OrdenRepository, usuarios UsuariosService, productos ProductosService, log *logger.Logger) *UseCase {
	return &UseCase{repo: repo, usuarios: usuarios, productos: productos, log: log}
}

// Crear arma y persiste una orden: valida stock de cada artículo contra
// Productos, congela precios en las líneas y luego descuenta stock.
// El descuento ocurre después de confirmar la orden; si falla se registra
// y la orden queda igual (no hay compensación).
func (uc *UseCase) Crear(ctx context.Context, perfil jwt.Perfil, token string, in dto.CrearOrdenRequest) (*dto.OrdenResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	vistos := make(map[int64]bool, len(in.Items))
	for _, item := range in.Items {
		if item.ID <= 0 || item.Cantidad <= 0 || vistos[item.ID] {
			return nil, domain.ErrInvalidInput
		}
		vistos[item.ID] = true
	}

	cliente := entity.ClienteSnapshot{
		ID:        perfil.ID,
		Cedula:    perfil.Cedula,
		Nombres:   perfil.Nombres,
		Apellidos: perfil.Apellidos,
		Username:  perfil.Username,
	}
	// Completar el snapshot con los datos de contacto que el token no trae.
	u, err := uc.usuarios.GetUsuario(ctx, token, perfil.ID)
	if err != nil {
		return nil, err
	}
	cliente.Email = u.Email
	cliente.Telefono = u.Telefono
	cliente.Direccion = u.Direccion

	// Primera pasada: validar existencia y stock de todo antes de escribir nada.
	type lineaPendiente struct {
		producto *dto.ProductoResponse
		cantidad int
	}
	pendientes := make([]lineaPendiente, 0, len(in.Items))
	for _, item := range in.Items {
		p, err := uc.productos.GetProducto(ctx, token, item.ID)
		if err != nil {
			return nil, err
		}
		if p.Cantidad < item.Cantidad {
			return nil, domain.ErrInsufficientStock
		}
		pendientes = append(pendientes, lineaPendiente{producto: p, cantidad: item.Cantidad})
	}

	lineas := make([]entity.LineaOrden, 0, len(pendientes))
	total := decimal.Zero
	for _, lp := range pendientes {
		subtotal := lp.producto.Precio.Mul(decimal.NewFromInt(int64(lp.cantidad)))
		lineas = append(lineas, entity.LineaOrden{
			ProductoID: lp.producto.ID,
			Nombre:     lp.producto.Nombre,
			Precio:     lp.producto.Precio,
			Cantidad:   lp.cantidad,
			Subtotal:   subtotal,
		})
		total = total.Add(subtotal)
	}

	now := time.Now()
	orden := &entity.Orden{
		UsuarioID: perfil.ID,
		Cliente:   cliente,
		Productos: lineas,
		Total:     total,
		Estado:    entity.OrdenCreada,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(orden); err != nil {
		return nil, err
	}

	// Descuento de stock tras confirmar la orden; el artículo agotado se
	// retira del inventario.
	for _, lp := range pendientes {
		nueva := lp.producto.Cantidad - lp.cantidad
		var err error
		if nueva <= 0 {
			err = uc.productos.EliminarProducto(ctx, token, lp.producto.ID)
		} else {
			err = uc.productos.CambiarCantidad(ctx, token, lp.producto.ID, nueva)
		}
		if err != nil {
			uc.log.Error().Err(err).
				Int64("orden_id", orden.ID).
				Int64("producto_id", lp.producto.ID).
				Msg("no se pudo descontar stock tras crear la orden")
		}
	}

	return toOrdenResponse(orden), nil
}

// GetByID obtiene una orden. El dueño solo puede ver las suyas.
func (uc *UseCase) GetByID(id int64, perfil jwt.Perfil) (*dto.OrdenResponse, error) {
	orden, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if orden == nil {
		return nil, nil
	}
	if perfil.Nivel < 2 && orden.UsuarioID != perfil.ID {
		return nil, domain.ErrForbidden
	}
	return toOrdenResponse(orden), nil
}

// Listar lista órdenes: el personal ve todas, el cliente solo las suyas.
// mine restringe al usuario del token sin importar el nivel.
func (uc *UseCase) Listar(perfil jwt.Perfil, mine bool) ([]dto.OrdenResponse, error) {
	var ordenes []*entity.Orden
	var err error
	if perfil.Nivel >= 2 && !mine {
		ordenes, err = uc.repo.List()
	} else {
		ordenes, err = uc.repo.ListByUsuario(perfil.ID)
	}
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrdenResponse, 0, len(ordenes))
	for _, o := range ordenes {
		out = append(out, *toOrdenResponse(o))
	}
	return out, nil
}

// CambiarEstado fija el estado de la orden. El dueño solo puede cancelar;
// el personal puede fijar cualquier estado del catálogo.
func (uc *UseCase) CambiarEstado(id int64, estado string, perfil jwt.Perfil) (*dto.OrdenResponse, error) {
	switch estado {
	case entity.OrdenCreada, entity.OrdenPagada, entity.OrdenEnviada, entity.OrdenEntregada, entity.OrdenCancelada:
	default:
		return nil, domain.ErrInvalidInput
	}
	orden, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if orden == nil {
		return nil, nil
	}
	if perfil.Nivel < 2 {
		if orden.UsuarioID != perfil.ID {
			return nil, domain.ErrForbidden
		}
		if estado != entity.OrdenCancelada {
			return nil, domain.ErrForbidden
		}
	}
	ok, err := uc.repo.UpdateEstado(id, estado)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	orden.Estado = estado
	return toOrdenResponse(orden), nil
}

func toOrdenResponse(o *entity.Orden) *dto.OrdenResponse {
	if o == nil {
		return nil
	}
	return &dto.OrdenResponse{
		ID:        o.ID,
		UsuarioID: o.UsuarioID,
		Cliente:   o.Cliente,
		Productos: o.Productos,
		Total:     o.Total,
		Estado:    o.Estado,
		CreatedAt: o.CreatedAt,
	}
}
