package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/casaempenos/prestamos-api/internal/application/dto"
	"github.com/casaempenos/prestamos-api/internal/application/usuarios"
	"github.com/casaempenos/prestamos-api/pkg/jwt"
	"github.com/casaempenos/prestamos-api/pkg/logger"
)

// UsuarioHandler maneja las peticiones HTTP del servicio de usuarios.
type UsuarioHandler struct {
	uc  *usuarios.UseCase
	log *logger.Logger
}

// NewUsuarioHandler construye el handler.
func NewUsuarioHandler(uc *usuarios.UseCase, log *logger.Logger) *UsuarioHandler {
	return &UsuarioHandler{uc: uc, log: log}
}

// Registrar registra un cliente. El rol del body se ignora: siempre cliente.
func (h *UsuarioHandler) Registrar(c *fiber.Ctx) error {
	var in dto.RegistroUsuarioRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	in.Rol = jwt.RolCliente
	out, err := h.uc.Registrar(in)
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RegistrarEmpleado registra personal (empleado o admin). Solo staff.
func (h *UsuarioHandler) RegistrarEmpleado(c *fiber.Ctx) error {
	var in dto.RegistroUsuarioRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	if in.Rol == "" {
		in.Rol = jwt.RolEmpleado
	}
	out, err := h.uc.Registrar(in)
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Login verifica credenciales y emite el token.
func (h *UsuarioHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	out, err := h.uc.Login(in)
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	return c.JSON(out)
}

// List lista usuarios (solo staff).
func (h *UsuarioHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	out, err := h.uc.List(limit, offset)
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID obtiene un usuario: el dueño o el personal.
func (h *UsuarioHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	perfil := GetPerfil(c)
	if perfil.Nivel < 2 && perfil.ID != int64(id) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "permisos insuficientes"})
	}
	out, err := h.uc.GetByID(int64(id))
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	if out == nil {
		return notFound(c, "usuario")
	}
	return c.JSON(out)
}

// GetByCedula obtiene un usuario por cédula (solo staff).
func (h *UsuarioHandler) GetByCedula(c *fiber.Ctx) error {
	cedula := c.Params("cedula")
	if cedula == "" {
		return badRequest(c, "cedula requerida")
	}
	out, err := h.uc.GetByCedula(cedula)
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	if out == nil {
		return notFound(c, "usuario")
	}
	return c.JSON(out)
}

// Actualizar actualización parcial: el propio usuario o un admin.
func (h *UsuarioHandler) Actualizar(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	perfil := GetPerfil(c)
	esAdmin := perfil.Nivel >= 3
	if !esAdmin && perfil.ID != int64(id) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "permisos insuficientes"})
	}
	var in dto.ActualizarUsuarioRequest
	if err := parsearBody(c, &in); err != nil {
		return badRequest(c, "cuerpo inválido o con campos no permitidos")
	}
	out, err := h.uc.Actualizar(int64(id), in, esAdmin)
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	if out == nil {
		return notFound(c, "usuario")
	}
	return c.JSON(out)
}

// Eliminar borrado lógico (solo admin).
func (h *UsuarioHandler) Eliminar(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	ok, err := h.uc.Eliminar(int64(id))
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	if !ok {
		return notFound(c, "usuario")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
