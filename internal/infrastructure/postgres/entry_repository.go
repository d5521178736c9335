package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/indrhi/suministros-api/internal/domain"
	"github.com/indrhi/suministros-api/internal/domain/entity"
	"github.com/indrhi/suministros-api/internal/domain/numbering"
	"github.com/indrhi/suministros-api/internal/domain/repository"
)

var _ repository.EntryRepository = (*EntryRepo)(nil)

const entrySelect = `SELECT id, numero_entrada, numero_orden, fecha, suplidor, recibido_por, created_at FROM entradas`

// EntryRepo entradas de mercancía sobre PostgreSQL.
type EntryRepo struct {
	q Querier
}

// NewEntryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEntryRepository(q Querier) *EntryRepo {
	return &EntryRepo{q: q}
}

// NextSequence incrementa el contador del año; la fila queda bloqueada hasta el commit.
func (r *EntryRepo) NextSequence(ctx context.Context, year int) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `
		INSERT INTO entrada_secuencias (anio, ultimo) VALUES ($1, 1)
		ON CONFLICT (anio) DO UPDATE SET ultimo = entrada_secuencias.ultimo + 1
		RETURNING ultimo`, year,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("secuencia de entradas %d: %w", year, err)
	}
	return n, nil
}

func (r *EntryRepo) OrderNumberExists(ctx context.Context, orderNumber string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM entradas WHERE numero_orden = $1)`, orderNumber).Scan(&exists)
	if err != nil {
		return false, wrapErr("buscar numero de orden", err)
	}
	return exists, nil
}

func (r *EntryRepo) ListOrderNumbers(ctx context.Context, year int) ([]string, error) {
	prefix := numbering.OrderPrefix + "-" + strconv.Itoa(year) + "-"
	rows, err := r.q.Query(ctx, `
		SELECT numero_orden FROM entradas WHERE starts_with(numero_orden, $1) ORDER BY numero_orden`, prefix)
	if err != nil {
		return nil, wrapErr("list numeros de orden", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, wrapErr("scan numero de orden", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *EntryRepo) Create(ctx context.Context, e *entity.Entry) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO entradas (id, numero_entrada, numero_orden, fecha, suplidor, recibido_por, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.EntryNumber, e.OrderNumber, e.Date, e.Supplier, e.ReceivedBy, e.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return wrapErr("insert entrada", err)
	}
	for _, it := range e.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO entrada_articulos (entrada_id, articulo_id, cantidad) VALUES ($1, $2, $3)`,
			e.ID, it.ArticleID, it.Quantity,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return wrapErr("insert linea entrada", err)
		}
	}
	return nil
}

func (r *EntryRepo) GetByID(ctx context.Context, id string) (*entity.Entry, error) {
	return r.getOne(ctx, entrySelect+` WHERE id = $1`, id)
}

func (r *EntryRepo) GetForUpdate(ctx context.Context, id string) (*entity.Entry, error) {
	return r.getOne(ctx, entrySelect+` WHERE id = $1 FOR UPDATE`, id)
}

func (r *EntryRepo) List(ctx context.Context) ([]*entity.Entry, error) {
	rows, err := r.q.Query(ctx, entrySelect+` ORDER BY created_at DESC, numero_entrada DESC`)
	if err != nil {
		return nil, wrapErr("list entradas", err)
	}
	var out []*entity.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			rows.Close()
			return nil, wrapErr("scan entrada", err)
		}
		out = append(out, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, e := range out {
		if e.Items, err = r.items(ctx, e.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Delete borra la entrada; sus líneas caen por ON DELETE CASCADE.
func (r *EntryRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM entradas WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete entrada", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *EntryRepo) getOne(ctx context.Context, query, id string) (*entity.Entry, error) {
	e, err := scanEntry(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, wrapErr("get entrada", err)
	}
	if e.Items, err = r.items(ctx, e.ID); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *EntryRepo) items(ctx context.Context, entryID string) ([]entity.EntryItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT ea.articulo_id, ea.cantidad, a.codigo, a.descripcion
		FROM entrada_articulos ea
		JOIN articulos a ON a.id = ea.articulo_id
		WHERE ea.entrada_id = $1 ORDER BY a.codigo`, entryID)
	if err != nil {
		return nil, wrapErr("lineas entrada", err)
	}
	defer rows.Close()

	var out []entity.EntryItem
	for rows.Next() {
		var it entity.EntryItem
		if err := rows.Scan(&it.ArticleID, &it.Quantity, &it.ArticleCode, &it.ArticleDescription); err != nil {
			return nil, wrapErr("scan linea entrada", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func scanEntry(row pgx.Row) (*entity.Entry, error) {
	var e entity.Entry
	if err := row.Scan(&e.ID, &e.EntryNumber, &e.OrderNumber, &e.Date, &e.Supplier, &e.ReceivedBy, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}
