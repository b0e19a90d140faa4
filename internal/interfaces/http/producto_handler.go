package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/casaempenos/prestamos-api/internal/application/dto"
	"github.com/casaempenos/prestamos-api/internal/application/productos"
	"github.com/casaempenos/prestamos-api/pkg/logger"
)

// ProductoHandler maneja las peticiones HTTP del inventario.
type ProductoHandler struct {
	uc  *productos.UseCase
	log *logger.Logger
}

// NewProductoHandler construye el handler.
func NewProductoHandler(uc *productos.UseCase, log *logger.Logger) *ProductoHandler {
	return &ProductoHandler{uc: uc, log: log}
}

// Crear da de alta un artículo (protegido).
func (h *ProductoHandler) Crear(c *fiber.Ctx) error {
	var in dto.CrearProductoRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	out, err := h.uc.Crear(in)
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Listar lista artículos con filtros (público).
func (h *ProductoHandler) Listar(c *fiber.Ctx) error {
	var in dto.ListarProductosRequest
	if err := c.QueryParser(&in); err != nil {
		return badRequest(c, "filtros inválidos")
	}
	out, err := h.uc.Listar(in)
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID obtiene un artículo (público).
func (h *ProductoHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	out, err := h.uc.GetByID(int64(id))
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	if out == nil {
		return notFound(c, "producto")
	}
	return c.JSON(out)
}

// Actualizar actualización parcial (protegido).
func (h *ProductoHandler) Actualizar(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	var in dto.ActualizarProductoRequest
	if err := parsearBody(c, &in); err != nil {
		return badRequest(c, "cuerpo inválido o con campos no permitidos")
	}
	out, err := h.uc.Actualizar(int64(id), in)
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	if out == nil {
		return notFound(c, "producto")
	}
	return c.JSON(out)
}

// CambiarEstado fija el estado del artículo (protegido).
func (h *ProductoHandler) CambiarEstado(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	var in dto.CambiarEstadoProductoRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	out, err := h.uc.CambiarEstado(int64(id), in.Estado)
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	if out == nil {
		return notFound(c, "producto")
	}
	return c.JSON(out)
}

// CambiarCantidad sobreescribe la cantidad (protegido).
func (h *ProductoHandler) CambiarCantidad(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	var in dto.CambiarCantidadRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	out, err := h.uc.CambiarCantidad(int64(id), in)
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	if out == nil {
		return notFound(c, "producto")
	}
	return c.JSON(out)
}

// Eliminar borra el artículo (protegido).
func (h *ProductoHandler) Eliminar(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	ok, err := h.uc.Eliminar(int64(id))
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	if !ok {
		return notFound(c, "producto")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListarCategorias agregado por categoría (público).
func (h *ProductoHandler) ListarCategorias(c *fiber.Ctx) error {
	out, err := h.uc.ListarCategorias()
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	return c.JSON(out)
}

// ListarSucursales agregado por sucursal (público).
func (h *ProductoHandler) ListarSucursales(c *fiber.Ctx) error {
	out, err := h.uc.ListarSucursales()
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	return c.JSON(out)
}
