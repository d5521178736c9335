package repository

import (
	"context"

	"github.com/indrhi/suministros-api/internal/domain/entity"
)

// DepartmentRepository puerto de persistencia para departamentos.
type DepartmentRepository interface {
	Create(ctx context.Context, dept *entity.Department) error
	GetByID(ctx context.Context, id string) (*entity.Department, error)
	Update(ctx context.Context, dept *entity.Department) error
	List(ctx context.Context) ([]*entity.Department, error)
	SoftDelete(ctx context.Context, id string) error
}
