package intake

import (
	"context"

	"github.com/indrhi/suministros-api/internal/domain/repository"
)

// TxRunner ejecuta fn en una transacción con los repositorios de entradas y artículos.
type TxRunner interface {
	RunIntake(ctx context.Context, fn func(
		entries repository.EntryRepository,
		articles repository.ArticleRepository,
	) error) error
}
