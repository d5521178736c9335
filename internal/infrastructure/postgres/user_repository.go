package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/indrhi/suministros-api/internal/domain"
	"github.com/indrhi/suministros-api/internal/domain/entity"
	"github.com/indrhi/suministros-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, nombre, email, password_hash, rol, COALESCE(departamento_id::text, ''), activo, created_at, updated_at`

// UserRepo usuarios sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO usuarios (id, nombre, email, password_hash, rol, departamento_id, activo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, '')::uuid, $7, $8, $9)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.DepartmentID, u.Active, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return wrapErr("insert usuario", err)
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM usuarios WHERE id = $1`, id)
}

// GetByEmail solo entre usuarios activos, sin distinguir mayúsculas.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM usuarios WHERE lower(email) = lower($1) AND activo`, email)
}

func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	_, err := r.q.Exec(ctx, `
		UPDATE usuarios SET nombre = $2, email = $3, password_hash = $4, rol = $5,
			departamento_id = NULLIF($6, '')::uuid, updated_at = $7
		WHERE id = $1`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.DepartmentID, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return wrapErr("update usuario", err)
	}
	return nil
}

func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM usuarios WHERE activo ORDER BY nombre`)
	if err != nil {
		return nil, wrapErr("list usuarios", err)
	}
	defer rows.Close()

	var out []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, wrapErr("scan usuario", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UserRepo) SoftDelete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `UPDATE usuarios SET activo = FALSE, updated_at = now() WHERE id = $1`, id); err != nil {
		return wrapErr("baja usuario", err)
	}
	return nil
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, wrapErr("get usuario", err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.DepartmentID, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
