package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/casaempenos/prestamos-api/internal/application/dto"
	"github.com/casaempenos/prestamos-api/internal/application/solicitudes"
	"github.com/casaempenos/prestamos-api/pkg/jwt"
	"github.com/casaempenos/prestamos-api/pkg/logger"
)

// SolicitudHandler maneja las peticiones HTTP de solicitudes de empeño.
type SolicitudHandler struct {
	uc  *solicitudes.UseCase
	log *logger.Logger
}

// NewSolicitudHandler construye el handler.
func NewSolicitudHandler(uc *solicitudes.UseCase, log *logger.Logger) *SolicitudHandler {
	return &SolicitudHandler{uc: uc, log: log}
}

// Crear registra la solicitud del cliente autenticado.
func (h *SolicitudHandler) Crear(c *fiber.Ctx) error {
	var in dto.CrearSolicitudRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	perfil := GetPerfil(c)
	out, err := h.uc.Crear(*perfil, in)
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Listar lista solicitudes con filtros y paginación. Acceso opcionalmente
// anónimo, pero mine=true exige token.
func (h *SolicitudHandler) Listar(c *fiber.Ctx) error {
	var in dto.ListarSolicitudesRequest
	if err := c.QueryParser(&in); err != nil {
		return badRequest(c, "filtros inválidos")
	}
	perfil := GetPerfil(c)
	if perfil == nil {
		if in.Mine == "true" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "mine requiere token"})
		}
		// Sin token solo se puede consultar como personal anónimo de solo
		// lectura: se listan con el perfil vacío de nivel staff.
		perfil = &jwt.Perfil{Nivel: 2}
	}
	out, err := h.uc.Listar(in, *perfil)
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	return c.JSON(out)
}

// ListarPorEstado lista por estado (ruta de conveniencia del panel).
func (h *SolicitudHandler) ListarPorEstado(c *fiber.Ctx) error {
	out, err := h.uc.ListarPorEstado(c.Params("estado"))
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID obtiene una solicitud (el dueño o el personal).
func (h *SolicitudHandler) GetByID(c *fiber.Ctx) error {
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
		return notFound(c, "solicitud")
	}
	return c.JSON(out)
}

// CambiarEstado decide la solicitud (solo admin) y notifica a Contratos
// cuando la aprobación trae monto.
func (h *SolicitudHandler) CambiarEstado(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	var in dto.CambiarEstadoSolicitudRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	perfil := GetPerfil(c)
	out, err := h.uc.CambiarEstado(c.Context(), int64(id), in, *perfil, GetToken(c))
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	if out == nil {
		return notFound(c, "solicitud")
	}
	return c.JSON(out)
}
