package memory

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/indrhi/suministros-api/internal/domain"
	"github.com/indrhi/suministros-api/internal/domain/entity"
	"github.com/indrhi/suministros-api/internal/domain/numbering"
	"github.com/indrhi/suministros-api/internal/domain/repository"
)

var _ repository.EntryRepository = (*EntryRepo)(nil)

// EntryRepo entradas de mercancía en memoria.
type EntryRepo struct {
	v view
}

func (r *EntryRepo) NextSequence(_ context.Context, year int) (int, error) {
	var n int
	err := r.v.read("entries.NextSequence", func(st *state) error {
		st.entrySeq[year]++
		n = st.entrySeq[year]
		return nil
	})
	return n, err
}

func (r *EntryRepo) OrderNumberExists(_ context.Context, orderNumber string) (bool, error) {
	found := false
	err := r.v.read("entries.OrderNumberExists", func(st *state) error {
		for _, e := range st.entries {
			if e.OrderNumber == orderNumber {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r *EntryRepo) ListOrderNumbers(_ context.Context, year int) ([]string, error) {
	prefix := numbering.OrderPrefix + "-" + strconv.Itoa(year) + "-"
	var out []string
	err := r.v.read("entries.ListOrderNumbers", func(st *state) error {
		for _, e := range st.entries {
			if strings.HasPrefix(e.OrderNumber, prefix) {
				out = append(out, e.OrderNumber)
			}
		}
		return nil
	})
	sort.Strings(out)
	return out, err
}

func (r *EntryRepo) Create(_ context.Context, e *entity.Entry) error {
	return r.v.read("entries.Create", func(st *state) error {
		for _, other := range st.entries {
			if other.ID == e.ID || other.OrderNumber == e.OrderNumber || other.EntryNumber == e.EntryNumber {
				return domain.ErrDuplicate
			}
		}
		stored := *e
		stored.Items = make([]entity.EntryItem, 0, len(e.Items))
		for _, it := range e.Items {
			stored.Items = append(stored.Items, entity.EntryItem{ArticleID: it.ArticleID, Quantity: it.Quantity})
		}
		st.entries[e.ID] = stored
		return nil
	})
}

func (r *EntryRepo) GetByID(_ context.Context, id string) (*entity.Entry, error) {
	var out *entity.Entry
	err := r.v.read("entries.GetByID", func(st *state) error {
		if e, ok := st.entries[id]; ok {
			out = decorateEntry(st, e)
		}
		return nil
	})
	return out, err
}

func (r *EntryRepo) GetForUpdate(ctx context.Context, id string) (*entity.Entry, error) {
	return r.GetByID(ctx, id)
}

func (r *EntryRepo) List(_ context.Context) ([]*entity.Entry, error) {
	var out []*entity.Entry
	err := r.v.read("entries.List", func(st *state) error {
		for _, e := range st.entries {
			out = append(out, decorateEntry(st, e))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].EntryNumber > out[j].EntryNumber
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, err
}

func (r *EntryRepo) Delete(_ context.Context, id string) error {
	return r.v.read("entries.Delete", func(st *state) error {
		delete(st.entries, id)
		return nil
	})
}

func decorateEntry(st *state, e entity.Entry) *entity.Entry {
	items := make([]entity.EntryItem, 0, len(e.Items))
	for _, it := range e.Items {
		if a, ok := st.articles[it.ArticleID]; ok {
			it.ArticleCode = a.Code
			it.ArticleDescription = a.Description
		}
		items = append(items, it)
	}
	e.Items = items
	return &e
}
