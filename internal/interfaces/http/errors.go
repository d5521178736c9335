package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/indrhi/suministros-api/internal/application/dto"
	"github.com/indrhi/suministros-api/internal/domain"
	"github.com/indrhi/suministros-api/pkg/logger"
)

// ErrorHandler traduce los errores de dominio a respuestas HTTP.
// Los 500 se registran con su causa y se responden sin detalles.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx, err error) error {
		status, body := mapError(err)
		if status == fiber.StatusInternalServerError {
			log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
		}
		return c.Status(status).JSON(body)
	}
}

func mapError(err error) (int, dto.ErrorResponse) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, dto.ErrorResponse{Code: codeForStatus(fe.Code), Error: fe.Message}
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, detailed("VALIDATION", "datos inválidos", err)
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusBadRequest, detailed("EMAIL_EXISTS", "el email ya está registrado", err)
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusBadRequest, detailed("DUPLICATE", "registro duplicado", err)
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Error: "credenciales inválidas"}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, detailed("FORBIDDEN", "acceso denegado", err)
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, detailed("NOT_FOUND", "recurso no encontrado", err)
	case errors.Is(err, domain.ErrInvalidTransition):
		return fiber.StatusConflict, detailed("INVALID_TRANSITION", "transición de estado no permitida", err)
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, detailed("INSUFFICIENT_STOCK", "stock insuficiente", err)
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, detailed("CONFLICT", "conflicto con el estado actual", err)
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Error: "error interno del servidor"}
	}
}

func detailed(code, msg string, err error) dto.ErrorResponse {
	return dto.ErrorResponse{Code: code, Error: msg, Details: err.Error()}
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	default:
		if status >= 500 {
			return "INTERNAL"
		}
		return "ERROR"
	}
}
