package repository

import (
	"context"
	"time"

	"github.com/indrhi/suministros-api/internal/domain/entity"
)

// RequestRepository puerto de persistencia para solicitudes, sus líneas y su historial.
type RequestRepository interface {
	// NextNumber reserva el siguiente número de solicitud de forma atómica.
	NextNumber(ctx context.Context) (int64, error)
	Create(ctx context.Context, req *entity.Request) error
	GetByID(ctx context.Context, id string) (*entity.Request, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Request, error)
	// UpdateStatus persiste estado, despacho y motivo de rechazo.
	UpdateStatus(ctx context.Context, req *entity.Request) error
	ReplaceItems(ctx context.Context, requestID string, items []entity.RequestItem) error
	List(ctx context.Context, filter entity.RequestFilter) ([]*entity.Request, error)
	SoftDelete(ctx context.Context, id string) error

	AppendHistory(ctx context.Context, change *entity.StatusChange) error
	History(ctx context.Context, requestID string) ([]*entity.StatusChange, error)

	CountByStatus(ctx context.Context) (map[entity.RequestStatus]int, error)
	CountByMonth(ctx context.Context, since time.Time) ([]entity.MonthlyCount, error)
}
