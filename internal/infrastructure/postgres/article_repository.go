package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/indrhi/suministros-api/internal/domain"
	"github.com/indrhi/suministros-api/internal/domain/entity"
	"github.com/indrhi/suministros-api/internal/domain/repository"
)

var _ repository.ArticleRepository = (*ArticleRepo)(nil)

const articleColumns = `id, codigo, descripcion, existencia, cantidad_minima, unidad, valor, activo, created_at, updated_at`

// ArticleRepo catálogo de artículos sobre PostgreSQL (usable con pool o tx).
type ArticleRepo struct {
	q Querier
}

// NewArticleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewArticleRepository(q Querier) *ArticleRepo {
	return &ArticleRepo{q: q}
}

func (r *ArticleRepo) Create(ctx context.Context, a *entity.Article) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO articulos (`+articleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.ID, a.Code, a.Description, a.OnHand, a.MinQuantity, a.Unit, a.UnitPrice, a.Active, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isCheckViolation(err) {
			return domain.ErrInsufficientStock
		}
		return wrapErr("insert articulo", err)
	}
	return nil
}

func (r *ArticleRepo) GetByID(ctx context.Context, id string) (*entity.Article, error) {
	return r.getOne(ctx, "get articulo", `SELECT `+articleColumns+` FROM articulos WHERE id = $1`, id)
}

func (r *ArticleRepo) GetByCode(ctx context.Context, code string) (*entity.Article, error) {
	return r.getOne(ctx, "get articulo por codigo", `SELECT `+articleColumns+` FROM articulos WHERE codigo = $1 AND activo`, code)
}

// GetForUpdate bloquea la fila del artículo hasta el fin de la transacción.
func (r *ArticleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Article, error) {
	return r.getOne(ctx, "lock articulo", `SELECT `+articleColumns+` FROM articulos WHERE id = $1 FOR UPDATE`, id)
}

// Update no toca existencia: solo cambia por entradas y despachos.
func (r *ArticleRepo) Update(ctx context.Context, a *entity.Article) error {
	_, err := r.q.Exec(ctx, `
		UPDATE articulos SET codigo = $2, descripcion = $3, cantidad_minima = $4, unidad = $5, valor = $6, updated_at = $7
		WHERE id = $1`,
		a.ID, a.Code, a.Description, a.MinQuantity, a.Unit, a.UnitPrice, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return wrapErr("update articulo", err)
	}
	return nil
}

func (r *ArticleRepo) SetStock(ctx context.Context, id string, onHand int) error {
	if onHand < 0 {
		return domain.ErrInsufficientStock
	}
	cmd, err := r.q.Exec(ctx, `UPDATE articulos SET existencia = $2, updated_at = now() WHERE id = $1`, id, onHand)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientStock
		}
		return wrapErr("update existencia", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ArticleRepo) List(ctx context.Context) ([]*entity.Article, error) {
	return r.list(ctx, "list articulos", `SELECT `+articleColumns+` FROM articulos WHERE activo ORDER BY codigo`)
}

func (r *ArticleRepo) ListLowStock(ctx context.Context) ([]*entity.Article, error) {
	return r.list(ctx, "list bajo stock", `
		SELECT `+articleColumns+` FROM articulos
		WHERE activo AND existencia <= cantidad_minima ORDER BY codigo`)
}

func (r *ArticleRepo) SoftDelete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `UPDATE articulos SET activo = FALSE, updated_at = now() WHERE id = $1`, id); err != nil {
		return wrapErr("baja articulo", err)
	}
	return nil
}

func (r *ArticleRepo) getOne(ctx context.Context, op, query string, arg any) (*entity.Article, error) {
	a, err := scanArticle(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		// Un id que no es UUID no puede existir: se trata igual que una fila ausente.
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, wrapErr(op, err)
	}
	return a, nil
}

func (r *ArticleRepo) list(ctx context.Context, op, query string) ([]*entity.Article, error) {
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()

	var out []*entity.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, wrapErr(op, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanArticle(row pgx.Row) (*entity.Article, error) {
	var a entity.Article
	err := row.Scan(&a.ID, &a.Code, &a.Description, &a.OnHand, &a.MinQuantity, &a.Unit, &a.UnitPrice, &a.Active, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
