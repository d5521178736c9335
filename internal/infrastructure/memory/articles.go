package memory

import (
	"context"
	"sort"
	"time"

	"github.com/indrhi/suministros-api/internal/domain"
	"github.com/indrhi/suministros-api/internal/domain/entity"
	"github.com/indrhi/suministros-api/internal/domain/repository"
)

var _ repository.ArticleRepository = (*ArticleRepo)(nil)

// ArticleRepo artículos en memoria.
type ArticleRepo struct {
	v view
}

func (r *ArticleRepo) Create(_ context.Context, a *entity.Article) error {
	return r.v.read("articles.Create", func(st *state) error {
		if _, ok := st.articles[a.ID]; ok {
			return domain.ErrDuplicate
		}
		if a.OnHand < 0 {
			return domain.ErrInsufficientStock
		}
		if a.Active && activeArticleCode(st, a.Code, a.ID) {
			return domain.ErrDuplicate
		}
		st.articles[a.ID] = *a
		return nil
	})
}

func (r *ArticleRepo) GetByID(_ context.Context, id string) (*entity.Article, error) {
	var out *entity.Article
	err := r.v.read("articles.GetByID", func(st *state) error {
		if a, ok := st.articles[id]; ok {
			out = &a
		}
		return nil
	})
	return out, err
}

func (r *ArticleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Article, error) {
	return r.GetByID(ctx, id)
}

func (r *ArticleRepo) GetByCode(_ context.Context, code string) (*entity.Article, error) {
	var out *entity.Article
	err := r.v.read("articles.GetByCode", func(st *state) error {
		for _, a := range st.articles {
			if a.Active && a.Code == code {
				a := a
				out = &a
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *ArticleRepo) Update(_ context.Context, a *entity.Article) error {
	return r.v.read("articles.Update", func(st *state) error {
		cur, ok := st.articles[a.ID]
		if !ok {
			return nil
		}
		if cur.Active && activeArticleCode(st, a.Code, a.ID) {
			return domain.ErrDuplicate
		}
		cur.Code = a.Code
		cur.Description = a.Description
		cur.MinQuantity = a.MinQuantity
		cur.Unit = a.Unit
		cur.UnitPrice = a.UnitPrice
		cur.UpdatedAt = a.UpdatedAt
		st.articles[a.ID] = cur
		return nil
	})
}

func (r *ArticleRepo) SetStock(_ context.Context, id string, onHand int) error {
	return r.v.read("articles.SetStock", func(st *state) error {
		if onHand < 0 {
			return domain.ErrInsufficientStock
		}
		cur, ok := st.articles[id]
		if !ok {
			return domain.ErrNotFound
		}
		cur.OnHand = onHand
		cur.UpdatedAt = time.Now()
		st.articles[id] = cur
		return nil
	})
}

func (r *ArticleRepo) List(_ context.Context) ([]*entity.Article, error) {
	return r.filter("articles.List", func(a *entity.Article) bool { return true })
}

func (r *ArticleRepo) ListLowStock(_ context.Context) ([]*entity.Article, error) {
	return r.filter("articles.ListLowStock", (*entity.Article).IsLowStock)
}

func (r *ArticleRepo) SoftDelete(_ context.Context, id string) error {
	return r.v.read("articles.SoftDelete", func(st *state) error {
		cur, ok := st.articles[id]
		if !ok {
			return nil
		}
		cur.Active = false
		cur.UpdatedAt = time.Now()
		st.articles[id] = cur
		return nil
	})
}

func (r *ArticleRepo) filter(op string, keep func(a *entity.Article) bool) ([]*entity.Article, error) {
	var out []*entity.Article
	err := r.v.read(op, func(st *state) error {
		for _, a := range st.articles {
			a := a
			if a.Active && keep(&a) {
				out = append(out, &a)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, err
}

func activeArticleCode(st *state, code, exceptID string) bool {
	for _, other := range st.articles {
		if other.ID != exceptID && other.Active && other.Code == code {
			return true
		}
	}
	return false
}
