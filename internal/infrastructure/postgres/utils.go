package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/indrhi/suministros-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return hasCode(err, "23505")
}

// isCheckViolation 23514; en este esquema solo la dispara existencia >= 0.
func isCheckViolation(err error) bool {
	return hasCode(err, "23514")
}

// isInvalidText 22P02: el texto no se pudo convertir al tipo de la columna (un id que no es UUID).
func isInvalidText(err error) bool {
	return hasCode(err, "22P02")
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// wrapErr anota el error con la operación. Un 22P02 se reporta como entrada inválida.
func wrapErr(op string, err error) error {
	if isInvalidText(err) {
		return fmt.Errorf("%s: %w", op, domain.Invalid("id", "identificador inválido"))
	}
	return fmt.Errorf("%s: %w", op, err)
}
