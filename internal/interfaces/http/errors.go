package http

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/casaempenos/prestamos-api/internal/application/dto"
	"github.com/casaempenos/prestamos-api/internal/domain"
	"github.com/casaempenos/prestamos-api/internal/infrastructure/httpclient"
	"github.com/casaempenos/prestamos-api/pkg/logger"
)

// errorJSON mapea errores de dominio a HTTP. Los fallos de servicios hermanos
// viajan con su detalle; los errores internos propios se loguean y responden
// con un mensaje genérico.
func errorJSON(c *fiber.Ctx, log *logger.Logger, err error) error {
	var upstream *httpclient.UpstreamError
	if errors.As(err, &upstream) {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code:    "UPSTREAM",
			Message: "la operación falló en el servicio de " + upstream.Servicio,
			Detail:  fiber.Map{"status": upstream.Status, "message": upstream.Mensaje},
		})
	}
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "STOCK_INSUFICIENTE", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientLiquidity):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "LIQUIDEZ_INSUFICIENTE", Message: err.Error()})
	case errors.Is(err, domain.ErrSolicitudNoAprobada):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "SOLICITUD_NO_APROBADA", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func notFound(c *fiber.Ctx, recurso string) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: recurso + " no encontrado"})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: msg})
}

// parsearBody decodifica el body JSON rechazando claves desconocidas, para
// que las actualizaciones parciales solo acepten los campos enumerados.
func parsearBody(c *fiber.Ctx, out any) error {
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}
