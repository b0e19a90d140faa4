package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/casaempenos/prestamos-api/internal/application/dto"
	"github.com/casaempenos/prestamos-api/internal/application/ordenes"
	"github.com/casaempenos/prestamos-api/pkg/logger"
)

// OrdenHandler maneja las peticiones HTTP de órdenes de compra.
type OrdenHandler struct {
	uc  *ordenes.UseCase
	log *logger.Logger
}

// NewOrdenHandler construye el handler.
func NewOrdenHandler(uc *ordenes.UseCase, log *logger.Logger) *OrdenHandler {
	return &OrdenHandler{uc: uc, log: log}
}

// Crear arma la orden del comprador autenticado.
func (h *OrdenHandler) Crear(c *fiber.Ctx) error {
	var in dto.CrearOrdenRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	perfil := GetPerfil(c)
	out, err := h.uc.Crear(c.Context(), *perfil, GetToken(c), in)
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Listar lista órdenes: personal todas, cliente las suyas.
// ?mine=true restringe a las del usuario del token.
func (h *OrdenHandler) Listar(c *fiber.Ctx) error {
	perfil := GetPerfil(c)
	out, err := h.uc.Listar(*perfil, c.Query("mine") == "true")
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID obtiene una orden (el dueño o el personal).
func (h *OrdenHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	perfil := GetPerfil(c)
	out, err := h.uc.GetByID(int64(id), *perfil)
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	if out == nil {
		return notFound(c, "orden")
	}
	return c.JSON(out)
}

// CambiarEstado fija el estado de la orden.
func (h *OrdenHandler) CambiarEstado(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	var in dto.CambiarEstadoOrdenRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	perfil := GetPerfil(c)
	out, err := h.uc.CambiarEstado(int64(id), in.Estado, *perfil)
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	if out == nil {
		return notFound(c, "orden")
	}
	return c.JSON(out)
}
