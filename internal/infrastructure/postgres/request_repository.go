package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/indrhi/suministros-api/internal/domain"
	"github.com/indrhi/suministros-api/internal/domain/entity"
	"github.com/indrhi/suministros-api/internal/domain/repository"
)

var _ repository.RequestRepository = (*RequestRepo)(nil)

const requestSelect = `
	SELECT s.id, s.numero, s.fecha, s.departamento_id, d.nombre, s.estado, s.creado_por,
		COALESCE(s.creado_por_id::text, ''), COALESCE(s.despachado_por, ''), s.despachado_en,
		COALESCE(s.motivo_rechazo, ''), s.activo, s.created_at, s.updated_at
	FROM solicitudes s
	JOIN departamentos d ON d.id = s.departamento_id`

const requestItemsSelect = `
	SELECT sa.solicitud_id, sa.articulo_id, sa.cantidad, sa.cantidad_solicitada, a.codigo, a.descripcion, a.unidad
	FROM solicitud_articulos sa
	JOIN articulos a ON a.id = sa.articulo_id`

// RequestRepo solicitudes, sus líneas y su historial sobre PostgreSQL.
type RequestRepo struct {
	q Querier
}

// NewRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRequestRepository(q Querier) *RequestRepo {
	return &RequestRepo{q: q}
}

// NextNumber toma el siguiente valor de numero_solicitud_seq.
func (r *RequestRepo) NextNumber(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('numero_solicitud_seq')`).Scan(&n); err != nil {
		return 0, wrapErr("nextval numero_solicitud_seq", err)
	}
	return n, nil
}

func (r *RequestRepo) Create(ctx context.Context, req *entity.Request) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO solicitudes (id, numero, fecha, departamento_id, estado, creado_por, creado_por_id, activo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, '')::uuid, $8, $9, $10)`,
		req.ID, req.Number, req.Date, req.DepartmentID, string(req.Status), req.CreatedBy, req.CreatedByID,
		req.Active, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return wrapErr("insert solicitud", err)
	}
	return r.insertItems(ctx, req.ID, req.Items)
}

func (r *RequestRepo) GetByID(ctx context.Context, id string) (*entity.Request, error) {
	return r.getOne(ctx, requestSelect+` WHERE s.id = $1`, id)
}

// GetForUpdate bloquea solo la fila de la solicitud.
func (r *RequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.Request, error) {
	return r.getOne(ctx, requestSelect+` WHERE s.id = $1 FOR UPDATE OF s`, id)
}

func (r *RequestRepo) UpdateStatus(ctx context.Context, req *entity.Request) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE solicitudes SET estado = $2, despachado_por = NULLIF($3, ''), despachado_en = $4,
			motivo_rechazo = NULLIF($5, ''), updated_at = $6
		WHERE id = $1`,
		req.ID, string(req.Status), req.DispatchedBy, req.DispatchedAt, req.RejectionReason, req.UpdatedAt,
	)
	if err != nil {
		return wrapErr("update estado solicitud", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *RequestRepo) ReplaceItems(ctx context.Context, requestID string, items []entity.RequestItem) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM solicitud_articulos WHERE solicitud_id = $1`, requestID); err != nil {
		return wrapErr("delete lineas solicitud", err)
	}
	return r.insertItems(ctx, requestID, items)
}

func (r *RequestRepo) List(ctx context.Context, f entity.RequestFilter) ([]*entity.Request, error) {
	query := requestSelect + ` WHERE s.activo`
	var args []any
	if f.Status != "" {
		args = append(args, string(f.Status))
		query += fmt.Sprintf(" AND s.estado = $%d", len(args))
	}
	if f.DepartmentID != "" {
		args = append(args, f.DepartmentID)
		query += fmt.Sprintf(" AND s.departamento_id = $%d", len(args))
	}
	query += ` ORDER BY s.numero DESC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list solicitudes", err)
	}
	var out []*entity.Request
	index := map[string]*entity.Request{}
	ids := []string{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			rows.Close()
			return nil, wrapErr("scan solicitud", err)
		}
		out = append(out, req)
		index[req.ID] = req
		ids = append(ids, req.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}

	itemRows, err := r.q.Query(ctx, requestItemsSelect+` WHERE sa.solicitud_id = ANY($1::uuid[]) ORDER BY a.codigo`, ids)
	if err != nil {
		return nil, wrapErr("list lineas solicitudes", err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		reqID, it, err := scanRequestItem(itemRows)
		if err != nil {
			return nil, wrapErr("scan linea solicitud", err)
		}
		if req, ok := index[reqID]; ok {
			req.Items = append(req.Items, it)
		}
	}
	return out, itemRows.Err()
}

func (r *RequestRepo) SoftDelete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE solicitudes SET activo = FALSE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return wrapErr("baja solicitud", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// historyItem forma de cada línea en la columna JSONB solicitud_historial.articulos.
type historyItem struct {
	ArticleID   string `json:"articulo_id"`
	Code        string `json:"codigo"`
	Description string `json:"descripcion"`
	Unit        string `json:"unidad,omitempty"`
	Quantity    int    `json:"cantidad"`
	Requested   int    `json:"cantidad_solicitada"`
}

func (r *RequestRepo) AppendHistory(ctx context.Context, c *entity.StatusChange) error {
	snapshot := make([]historyItem, 0, len(c.Items))
	for _, it := range c.Items {
		snapshot = append(snapshot, historyItem{
			ArticleID: it.ArticleID, Code: it.ArticleCode, Description: it.ArticleDescription,
			Unit: it.Unit, Quantity: it.Quantity, Requested: it.Requested,
		})
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return wrapErr("serializar historial", err)
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO solicitud_historial (id, solicitud_id, estado_anterior, estado_nuevo, usuario, nota, articulos, fecha)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''), $7, $8)`,
		c.ID, c.RequestID, string(c.From), string(c.To), c.Actor, c.Note, raw, c.At,
	)
	if err != nil {
		return wrapErr("insert historial", err)
	}
	return nil
}

func (r *RequestRepo) History(ctx context.Context, requestID string) ([]*entity.StatusChange, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, solicitud_id, COALESCE(estado_anterior, ''), estado_nuevo, usuario, COALESCE(nota, ''), articulos, fecha
		FROM solicitud_historial WHERE solicitud_id = $1 ORDER BY fecha, id`, requestID)
	if err != nil {
		return nil, wrapErr("list historial", err)
	}
	defer rows.Close()

	var out []*entity.StatusChange
	for rows.Next() {
		var (
			c        entity.StatusChange
			from, to string
			raw      []byte
		)
		if err := rows.Scan(&c.ID, &c.RequestID, &from, &to, &c.Actor, &c.Note, &raw, &c.At); err != nil {
			return nil, wrapErr("scan historial", err)
		}
		c.From = entity.RequestStatus(from)
		c.To = entity.RequestStatus(to)
		var snapshot []historyItem
		if err := json.Unmarshal(raw, &snapshot); err != nil {
			return nil, fmt.Errorf("leer historial %s: %w", c.ID, err)
		}
		for _, h := range snapshot {
			c.Items = append(c.Items, entity.RequestItem{
				ArticleID: h.ArticleID, Quantity: h.Quantity, Requested: h.Requested,
				ArticleCode: h.Code, ArticleDescription: h.Description, Unit: h.Unit,
			})
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *RequestRepo) CountByStatus(ctx context.Context) (map[entity.RequestStatus]int, error) {
	rows, err := r.q.Query(ctx, `SELECT estado, count(*) FROM solicitudes WHERE activo GROUP BY estado`)
	if err != nil {
		return nil, wrapErr("contar por estado", err)
	}
	defer rows.Close()

	out := map[entity.RequestStatus]int{}
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, wrapErr("scan conteo", err)
		}
		out[entity.RequestStatus(status)] = n
	}
	return out, rows.Err()
}

func (r *RequestRepo) CountByMonth(ctx context.Context, since time.Time) ([]entity.MonthlyCount, error) {
	rows, err := r.q.Query(ctx, `
		SELECT to_char(date_trunc('month', fecha), 'YYYY-MM') AS mes, count(*)
		FROM solicitudes WHERE activo AND fecha >= $1
		GROUP BY mes ORDER BY mes`, since)
	if err != nil {
		return nil, wrapErr("contar por mes", err)
	}
	defer rows.Close()

	var out []entity.MonthlyCount
	for rows.Next() {
		var m entity.MonthlyCount
		if err := rows.Scan(&m.Month, &m.Count); err != nil {
			return nil, wrapErr("scan conteo mensual", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *RequestRepo) insertItems(ctx context.Context, requestID string, items []entity.RequestItem) error {
	for _, it := range items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO solicitud_articulos (solicitud_id, articulo_id, cantidad, cantidad_solicitada)
			VALUES ($1, $2, $3, $4)`,
			requestID, it.ArticleID, it.Quantity, it.Requested,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return wrapErr("insert linea solicitud", err)
		}
	}
	return nil
}

func (r *RequestRepo) getOne(ctx context.Context, query, id string) (*entity.Request, error) {
	req, err := scanRequest(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, wrapErr("get solicitud", err)
	}

	rows, err := r.q.Query(ctx, requestItemsSelect+` WHERE sa.solicitud_id = $1 ORDER BY a.codigo`, id)
	if err != nil {
		return nil, wrapErr("get lineas solicitud", err)
	}
	defer rows.Close()
	for rows.Next() {
		_, it, err := scanRequestItem(rows)
		if err != nil {
			return nil, wrapErr("scan linea solicitud", err)
		}
		req.Items = append(req.Items, it)
	}
	return req, rows.Err()
}

func scanRequest(row pgx.Row) (*entity.Request, error) {
	var (
		req    entity.Request
		status string
	)
	err := row.Scan(&req.ID, &req.Number, &req.Date, &req.DepartmentID, &req.DepartmentName, &status, &req.CreatedBy,
		&req.CreatedByID, &req.DispatchedBy, &req.DispatchedAt, &req.RejectionReason, &req.Active, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, err
	}
	req.Status = entity.RequestStatus(status)
	return &req, nil
}

func scanRequestItem(row pgx.Row) (string, entity.RequestItem, error) {
	var (
		reqID string
		it    entity.RequestItem
	)
	err := row.Scan(&reqID, &it.ArticleID, &it.Quantity, &it.Requested, &it.ArticleCode, &it.ArticleDescription, &it.Unit)
	return reqID, it, err
}
