package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/indrhi/suministros-api/internal/application/auth"
	"github.com/indrhi/suministros-api/internal/application/dto"
	"github.com/indrhi/suministros-api/internal/domain/entity"
	"github.com/indrhi/suministros-api/pkg/jwt"
)

// LocalSession clave en c.Locals donde queda la sesión del usuario autenticado.
const LocalSession = "session"

// AuthMiddleware valida el Bearer Token JWT y deja la sesión en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Error: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Error: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Error: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Error: "token inválido o expirado"})
		}
		c.Locals(LocalSession, auth.SessionFromClaims(claims))
		return c.Next()
	}
}

// RequireRole deja pasar solo a las sesiones con alguno de los roles indicados.
// Un token sin rol es 401; un rol no permitido es 403.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := GetSession(c)
		if s.Role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Error: "el token no incluye rol"})
		}
		if !s.HasRole(roles...) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Error: "rol sin acceso a este recurso"})
		}
		return c.Next()
	}
}

// GetSession devuelve la sesión del contexto (después del middleware de auth).
func GetSession(c *fiber.Ctx) entity.Session {
	s, _ := c.Locals(LocalSession).(entity.Session)
	return s
}

// GetUserID atajo para el id del usuario autenticado.
func GetUserID(c *fiber.Ctx) string { return GetSession(c).UserID }

// GetRole atajo para el rol del usuario autenticado.
func GetRole(c *fiber.Ctx) string { return GetSession(c).Role }

// GetDepartmentID atajo para el departamento del usuario autenticado.
func GetDepartmentID(c *fiber.Ctx) string { return GetSession(c).DepartmentID }
