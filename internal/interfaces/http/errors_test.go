package http

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/indrhi/suministros-api/internal/domain"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.Invalid("cantidad", "debe ser mayor que 0"), fiber.StatusBadRequest, "VALIDATION"},
		{fmt.Errorf("%w: código repetido", domain.ErrDuplicate), fiber.StatusBadRequest, "DUPLICATE"},
		{domain.ErrEmailAlreadyExists, fiber.StatusBadRequest, "EMAIL_EXISTS"},
		{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
		{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
		{fmt.Errorf("%w: solicitud x", domain.ErrNotFound), fiber.StatusNotFound, "NOT_FOUND"},
		{domain.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION"},
		{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
		{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
		{fiber.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
		{errors.New("pq: conexión rechazada"), fiber.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		status, body := mapError(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, body.Code, tc.err.Error())
	}
}

func TestMapError_InternoSinDetalles(t *testing.T) {
	_, body := mapError(errors.New("dial tcp 10.0.0.5:5432: i/o timeout"))
	assert.Empty(t, body.Details)
	assert.NotContains(t, body.Error, "10.0.0.5")

	_, body = mapError(domain.Invalid("digitos_orden", "deben ser exactamente 4 dígitos"))
	assert.Equal(t, "digitos_orden: deben ser exactamente 4 dígitos", body.Details)
}
