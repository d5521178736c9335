package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/indrhi/suministros-api/internal/domain"
	"github.com/indrhi/suministros-api/internal/domain/entity"
	"github.com/indrhi/suministros-api/internal/domain/repository"
)

var _ repository.DepartmentRepository = (*DepartmentRepo)(nil)

// DepartmentRepo departamentos sobre PostgreSQL.
type DepartmentRepo struct {
	q Querier
}

// NewDepartmentRepository construye el adaptador.
func NewDepartmentRepository(q Querier) *DepartmentRepo {
	return &DepartmentRepo{q: q}
}

func (r *DepartmentRepo) Create(ctx context.Context, d *entity.Department) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO departamentos (id, codigo, nombre, activo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		d.ID, d.Code, d.Name, d.Active, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return wrapErr("insert departamento", err)
	}
	return nil
}

func (r *DepartmentRepo) GetByID(ctx context.Context, id string) (*entity.Department, error) {
	var d entity.Department
	err := r.q.QueryRow(ctx, `
		SELECT id, codigo, nombre, activo, created_at, updated_at
		FROM departamentos WHERE id = $1`, id,
	).Scan(&d.ID, &d.Code, &d.Name, &d.Active, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, wrapErr("get departamento", err)
	}
	return &d, nil
}

func (r *DepartmentRepo) Update(ctx context.Context, d *entity.Department) error {
	_, err := r.q.Exec(ctx, `
		UPDATE departamentos SET codigo = $2, nombre = $3, updated_at = $4 WHERE id = $1`,
		d.ID, d.Code, d.Name, d.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return wrapErr("update departamento", err)
	}
	return nil
}

func (r *DepartmentRepo) List(ctx context.Context) ([]*entity.Department, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, codigo, nombre, activo, created_at, updated_at
		FROM departamentos WHERE activo ORDER BY nombre`)
	if err != nil {
		return nil, wrapErr("list departamentos", err)
	}
	defer rows.Close()

	var out []*entity.Department
	for rows.Next() {
		var d entity.Department
		if err := rows.Scan(&d.ID, &d.Code, &d.Name, &d.Active, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, wrapErr("scan departamento", err)
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

func (r *DepartmentRepo) SoftDelete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `UPDATE departamentos SET activo = FALSE, updated_at = now() WHERE id = $1`, id); err != nil {
		return wrapErr("baja departamento", err)
	}
	return nil
}
