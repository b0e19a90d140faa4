package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/casaempenos/prestamos-api/internal/application/dto"
	"github.com/casaempenos/prestamos-api/pkg/jwt"
)

// Locals keys para el perfil y el token crudo en Fiber.
const (
	LocalPerfil = "perfil"
	LocalToken  = "token"
)

func extraerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// AuthMiddleware valida el Bearer Token JWT y deja el perfil y el token crudo
// en c.Locals. El token crudo se reenvía en las llamadas a servicios hermanos.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := extraerToken(c)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido (Bearer <token>)"})
		}
		perfil, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalPerfil, perfil)
		c.Locals(LocalToken, tokenString)
		return c.Next()
	}
}

// OptionalAuth valida el token si viene, pero deja pasar la petición anónima.
// Un token presente pero inválido sí se rechaza.
func OptionalAuth(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := extraerToken(c)
		if tokenString == "" {
			return c.Next()
		}
		perfil, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalPerfil, perfil)
		c.Locals(LocalToken, tokenString)
		return c.Next()
	}
}

// RequireNivel exige un nivel mínimo (cliente=1, empleado=2, admin=3).
// Debe ir después de AuthMiddleware.
func RequireNivel(nivel int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		perfil := GetPerfil(c)
		if perfil == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido (Bearer <token>)"})
		}
		if perfil.Nivel < nivel {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "permisos insuficientes"})
		}
		return c.Next()
	}
}

// RequireAdmin exige rol admin. Debe ir después de AuthMiddleware.
func RequireAdmin() fiber.Handler {
	return RequireNivel(3)
}

// GetPerfil devuelve el perfil del contexto (nil si la petición es anónima).
func GetPerfil(c *fiber.Ctx) *jwt.Perfil {
	v := c.Locals(LocalPerfil)
	if v == nil {
		return nil
	}
	p, _ := v.(*jwt.Perfil)
	return p
}

// GetToken devuelve el token crudo del contexto ("" si la petición es anónima).
func GetToken(c *fiber.Ctx) string {
	v := c.Locals(LocalToken)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
