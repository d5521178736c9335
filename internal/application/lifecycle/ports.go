package lifecycle

import (
	"context"

	"github.com/indrhi/suministros-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción, con repositorios atados a ella.
// Si fn devuelve error no queda ninguna escritura aplicada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		requests repository.RequestRepository,
		articles repository.ArticleRepository,
	) error) error
}
