package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/casaempenos/prestamos-api/internal/application/contratos"
	"github.com/casaempenos/prestamos-api/internal/application/dto"
	"github.com/casaempenos/prestamos-api/pkg/logger"
)

// ContratoHandler maneja las peticiones HTTP de contratos de empeño,
// liquidez por sucursal y pagos.
type ContratoHandler struct {
	uc       *contratos.UseCase
	liquidez *contratos.LiquidezUseCase
	pagos    *contratos.PagoUseCase
	log      *logger.Logger
}

// NewContratoHandler construye el handler.
func NewContratoHandler(uc *contratos.UseCase, liquidez *contratos.LiquidezUseCase, pagos *contratos.PagoUseCase, log *logger.Logger) *ContratoHandler {
	return &ContratoHandler{uc: uc, liquidez: liquidez, pagos: pagos, log: log}
}

// Crear crea un contrato a partir de una solicitud aprobada.
func (h *ContratoHandler) Crear(c *fiber.Ctx) error {
	var in dto.CrearContratoRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	perfil := GetPerfil(c)
	out, err := h.uc.Crear(c.Context(), *perfil, in)
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Listar lista contratos con filtros. Acceso anónimo permitido salvo mine=true.
func (h *ContratoHandler) Listar(c *fiber.Ctx) error {
	var in dto.ListarContratosRequest
	if err := c.QueryParser(&in); err != nil {
		return badRequest(c, "filtros inválidos")
	}
	perfil := GetPerfil(c)
	if perfil == nil && in.Mine == "true" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "mine requiere token"})
	}
	out, err := h.uc.Listar(in, perfil)
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID obtiene un contrato por id.
func (h *ContratoHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	out, err := h.uc.GetByID(int64(id))
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	if out == nil {
		return notFound(c, "contrato")
	}
	return c.JSON(out)
}

// Actualizar aplica cambios parciales sobre un contrato.
func (h *ContratoHandler) Actualizar(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	var in dto.ActualizarContratoRequest
	if err := parsearBody(c, &in); err != nil {
		return badRequest(c, err.Error())
	}
	out, err := h.uc.Actualizar(int64(id), in)
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	if out == nil {
		return notFound(c, "contrato")
	}
	return c.JSON(out)
}

// CambiarEstado transiciona el contrato y dispara el efecto sobre el
// producto en garantía cuando aplica.
func (h *ContratoHandler) CambiarEstado(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	var in dto.CambiarEstadoContratoRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	perfil := GetPerfil(c)
	out, err := h.uc.CambiarEstado(c.Context(), int64(id), in, *perfil)
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	if out == nil {
		return notFound(c, "contrato")
	}
	return c.JSON(out)
}

// Firmar marca el contrato como firmado.
func (h *ContratoHandler) Firmar(c *fiber.Ctx) error {
	return h.marcar(c, h.uc.Firmar)
}

// EntregarProducto marca la garantía como entregada.
func (h *ContratoHandler) EntregarProducto(c *fiber.Ctx) error {
	return h.marcar(c, h.uc.EntregarProducto)
}

func (h *ContratoHandler) marcar(c *fiber.Ctx, fn func(int64) (*dto.ContratoResponse, error)) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	out, err := fn(int64(id))
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	if out == nil {
		return notFound(c, "contrato")
	}
	return c.JSON(out)
}

// Desembolsar registra la entrega del préstamo al cliente.
func (h *ContratoHandler) Desembolsar(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	var in dto.DesembolsarRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	out, err := h.uc.Desembolsar(int64(id), in)
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	if out == nil {
		return notFound(c, "contrato")
	}
	return c.JSON(out)
}

// GetPDF devuelve el ticket del contrato en PDF.
func (h *ContratoHandler) GetPDF(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	pdf, err := h.uc.GenerarPDF(int64(id))
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	if pdf == nil {
		return notFound(c, "contrato")
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="contrato.pdf"`)
	return c.Send(pdf)
}

// ListarLiquidez lista la liquidez de todas las sucursales.
func (h *ContratoHandler) ListarLiquidez(c *fiber.Ctx) error {
	out, err := h.liquidez.Listar()
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	return c.JSON(out)
}

// ActualizarLiquidez fija el saldo de una sucursal (solo admin).
func (h *ContratoHandler) ActualizarLiquidez(c *fiber.Ctx) error {
	var in dto.ActualizarLiquidezRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	out, err := h.liquidez.Actualizar(c.Params("sucursal"), in)
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	return c.JSON(out)
}

// TransferirLiquidez mueve fondos entre sucursales de forma atómica.
func (h *ContratoHandler) TransferirLiquidez(c *fiber.Ctx) error {
	var in dto.TransferirLiquidezRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	perfil := GetPerfil(c)
	out, err := h.liquidez.Transferir(c.Context(), in, *perfil)
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListarTransferencias lista el historial de transferencias.
func (h *ContratoHandler) ListarTransferencias(c *fiber.Ctx) error {
	var in dto.ListarTransferenciasRequest
	if err := c.QueryParser(&in); err != nil {
		return badRequest(c, "filtros inválidos")
	}
	out, err := h.liquidez.ListarTransferencias(in)
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	return c.JSON(out)
}

// RegistrarPago registra un abono del cliente sobre el contrato.
func (h *ContratoHandler) RegistrarPago(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	var in dto.CrearPagoRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	out, err := h.pagos.Registrar(int64(id), in)
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	if out == nil {
		return notFound(c, "contrato")
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListarPagos lista los pagos de un contrato.
func (h *ContratoHandler) ListarPagos(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	out, err := h.pagos.Listar(int64(id))
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	// nil es contrato inexistente; un contrato sin abonos devuelve lista vacía.
	if out == nil {
		return notFound(c, "contrato")
	}
	return c.JSON(out)
}

// SaldoContrato devuelve el saldo pendiente del contrato.
func (h *ContratoHandler) SaldoContrato(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	out, err := h.pagos.Saldo(int64(id))
	if err != nil {
		return errorJSON(c, h.log, err)
	}
	if out == nil {
		return notFound(c, "contrato")
	}
	return c.JSON(out)
}
