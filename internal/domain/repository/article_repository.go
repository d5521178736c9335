package repository

import (
	"context"

	"github.com/indrhi/suministros-api/internal/domain/entity"
)

// ArticleRepository puerto de persistencia para el catálogo de artículos.
// Los Get devuelven (nil, nil) cuando no existe la fila.
type ArticleRepository interface {
	Create(ctx context.Context, article *entity.Article) error
	GetByID(ctx context.Context, id string) (*entity.Article, error)
	// GetByCode busca entre artículos activos (coincidencia exacta).
	GetByCode(ctx context.Context, code string) (*entity.Article, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Article, error)
	// Update no modifica la existencia.
	Update(ctx context.Context, article *entity.Article) error
	// SetStock fija la existencia; un valor negativo es ErrInsufficientStock.
	SetStock(ctx context.Context, id string, onHand int) error
	List(ctx context.Context) ([]*entity.Article, error)
	ListLowStock(ctx context.Context) ([]*entity.Article, error)
	SoftDelete(ctx context.Context, id string) error
}
