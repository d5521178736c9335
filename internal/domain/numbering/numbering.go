// Package numbering arma y valida los números visibles de entradas de mercancía.
package numbering

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/indrhi/suministros-api/internal/domain"
)

const (
	OrderPrefix = "INDRHI-DAF-CD"
	EntryPrefix = "EM"

	maxOrderSequence = 9999
)

var orderDigitsRe = regexp.MustCompile(`^\d{4}$`)

// ValidOrderDigits exactamente cuatro dígitos.
func ValidOrderDigits(digits string) bool {
	return orderDigitsRe.MatchString(digits)
}

// OrderNumber INDRHI-DAF-CD-<año>-<dígitos>.
func OrderNumber(year int, digits string) (string, error) {
	if !ValidOrderDigits(digits) {
		return "", domain.Invalid("digitos_orden", "deben ser exactamente 4 dígitos")
	}
	return fmt.Sprintf("%s-%d-%s", OrderPrefix, year, digits), nil
}

// EntryNumber EM-<año>-<secuencia con 4 dígitos>.
func EntryNumber(year, seq int) string {
	return fmt.Sprintf("%s-%d-%04d", EntryPrefix, year, seq)
}

// OrderSequence extrae la parte numérica de un número de orden del año indicado.
func OrderSequence(orderNumber string, year int) (int, bool) {
	prefix := fmt.Sprintf("%s-%d-", OrderPrefix, year)
	if !strings.HasPrefix(orderNumber, prefix) {
		return 0, false
	}
	digits := strings.TrimPrefix(orderNumber, prefix)
	if !ValidOrderDigits(digits) {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// NextOrderDigits sugiere los dígitos siguientes al mayor número de orden del año.
func NextOrderDigits(existing []string, year int) (string, error) {
	highest := 0
	for _, on := range existing {
		if n, ok := OrderSequence(on, year); ok && n > highest {
			highest = n
		}
	}
	if highest >= maxOrderSequence {
		return "", fmt.Errorf("%w: se agotó la numeración de órdenes de %d", domain.ErrConflict, year)
	}
	return fmt.Sprintf("%04d", highest+1), nil
}
