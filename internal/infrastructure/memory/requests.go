package memory

import (
	"context"
	"sort"
	"time"

	"github.com/indrhi/suministros-api/internal/domain"
	"github.com/indrhi/suministros-api/internal/domain/entity"
	"github.com/indrhi/suministros-api/internal/domain/repository"
)

var _ repository.RequestRepository = (*RequestRepo)(nil)

// RequestRepo solicitudes, líneas e historial en memoria.
type RequestRepo struct {
	v view
}

func (r *RequestRepo) NextNumber(_ context.Context) (int64, error) {
	var n int64
	err := r.v.read("requests.NextNumber", func(st *state) error {
		st.requestSeq++
		n = st.requestSeq
		return nil
	})
	return n, err
}

func (r *RequestRepo) Create(_ context.Context, req *entity.Request) error {
	return r.v.read("requests.Create", func(st *state) error {
		for _, other := range st.requests {
			if other.ID == req.ID || other.Number == req.Number {
				return domain.ErrDuplicate
			}
		}
		for _, it := range req.Items {
			if _, ok := st.articles[it.ArticleID]; !ok {
				return domain.ErrNotFound
			}
		}
		stored := *req
		stored.Items = stripItems(req.Items)
		st.requests[req.ID] = stored
		return nil
	})
}

func (r *RequestRepo) GetByID(_ context.Context, id string) (*entity.Request, error) {
	var out *entity.Request
	err := r.v.read("requests.GetByID", func(st *state) error {
		if req, ok := st.requests[id]; ok {
			out = decorate(st, req)
		}
		return nil
	})
	return out, err
}

func (r *RequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.Request, error) {
	return r.GetByID(ctx, id)
}

func (r *RequestRepo) UpdateStatus(_ context.Context, req *entity.Request) error {
	return r.v.read("requests.UpdateStatus", func(st *state) error {
		cur, ok := st.requests[req.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Status = req.Status
		cur.DispatchedBy = req.DispatchedBy
		cur.DispatchedAt = req.DispatchedAt
		cur.RejectionReason = req.RejectionReason
		cur.UpdatedAt = req.UpdatedAt
		st.requests[req.ID] = cur
		return nil
	})
}

func (r *RequestRepo) ReplaceItems(_ context.Context, requestID string, items []entity.RequestItem) error {
	return r.v.read("requests.ReplaceItems", func(st *state) error {
		cur, ok := st.requests[requestID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Items = stripItems(items)
		st.requests[requestID] = cur
		return nil
	})
}

func (r *RequestRepo) List(_ context.Context, f entity.RequestFilter) ([]*entity.Request, error) {
	var out []*entity.Request
	err := r.v.read("requests.List", func(st *state) error {
		for _, req := range st.requests {
			if !req.Active {
				continue
			}
			if f.Status != "" && req.Status != f.Status {
				continue
			}
			if f.DepartmentID != "" && req.DepartmentID != f.DepartmentID {
				continue
			}
			out = append(out, decorate(st, req))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Number > out[j].Number })
	return out, err
}

func (r *RequestRepo) SoftDelete(_ context.Context, id string) error {
	return r.v.read("requests.SoftDelete", func(st *state) error {
		cur, ok := st.requests[id]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Active = false
		cur.UpdatedAt = time.Now()
		st.requests[id] = cur
		return nil
	})
}

func (r *RequestRepo) AppendHistory(_ context.Context, c *entity.StatusChange) error {
	return r.v.read("requests.AppendHistory", func(st *state) error {
		stored := *c
		stored.Items = stripItems(c.Items)
		st.history = append(st.history, stored)
		return nil
	})
}

func (r *RequestRepo) History(_ context.Context, requestID string) ([]*entity.StatusChange, error) {
	var out []*entity.StatusChange
	err := r.v.read("requests.History", func(st *state) error {
		for _, c := range st.history {
			if c.RequestID != requestID {
				continue
			}
			c := c
			c.Items = decorateItems(st, c.Items)
			out = append(out, &c)
		}
		return nil
	})
	return out, err
}

func (r *RequestRepo) CountByStatus(_ context.Context) (map[entity.RequestStatus]int, error) {
	out := map[entity.RequestStatus]int{}
	err := r.v.read("requests.CountByStatus", func(st *state) error {
		for _, req := range st.requests {
			if req.Active {
				out[req.Status]++
			}
		}
		return nil
	})
	return out, err
}

func (r *RequestRepo) CountByMonth(_ context.Context, since time.Time) ([]entity.MonthlyCount, error) {
	byMonth := map[string]int{}
	err := r.v.read("requests.CountByMonth", func(st *state) error {
		for _, req := range st.requests {
			if req.Active && !req.Date.Before(since) {
				byMonth[req.Date.Format("2006-01")]++
			}
		}
		return nil
	})
	out := make([]entity.MonthlyCount, 0, len(byMonth))
	for m, n := range byMonth {
		out = append(out, entity.MonthlyCount{Month: m, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, err
}

// stripItems guarda solo la referencia al artículo; los datos de presentación se leen al consultar.
func stripItems(items []entity.RequestItem) []entity.RequestItem {
	out := make([]entity.RequestItem, 0, len(items))
	for _, it := range items {
		out = append(out, entity.RequestItem{ArticleID: it.ArticleID, Quantity: it.Quantity, Requested: it.Requested})
	}
	return out
}

func decorate(st *state, req entity.Request) *entity.Request {
	if d, ok := st.departments[req.DepartmentID]; ok {
		req.DepartmentName = d.Name
	}
	req.Items = decorateItems(st, req.Items)
	return &req
}

func decorateItems(st *state, items []entity.RequestItem) []entity.RequestItem {
	out := make([]entity.RequestItem, 0, len(items))
	for _, it := range items {
		if a, ok := st.articles[it.ArticleID]; ok {
			it.ArticleCode = a.Code
			it.ArticleDescription = a.Description
			it.Unit = a.Unit
		}
		out = append(out, it)
	}
	return out
}
