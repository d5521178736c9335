package repository

import (
	"context"

	"github.com/indrhi/suministros-api/internal/domain/entity"
)

// EntryRepository puerto de persistencia para entradas de mercancía.
type EntryRepository interface {
	// NextSequence reserva el siguiente número de entrada del año (reinicia en 1 cada año).
	NextSequence(ctx context.Context, year int) (int, error)
	OrderNumberExists(ctx context.Context, orderNumber string) (bool, error)
	ListOrderNumbers(ctx context.Context, year int) ([]string, error)
	Create(ctx context.Context, entry *entity.Entry) error
	GetByID(ctx context.Context, id string) (*entity.Entry, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Entry, error)
	List(ctx context.Context) ([]*entity.Entry, error)
	Delete(ctx context.Context, id string) error
}
