package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/indrhi/suministros-api/internal/domain"
	"github.com/indrhi/suministros-api/internal/domain/entity"
	"github.com/indrhi/suministros-api/internal/domain/repository"
)

var _ repository.DepartmentRepository = (*DepartmentRepo)(nil)

// DepartmentRepo departamentos en memoria.
// El índice único replica lower(codigo) de PostgreSQL.
type DepartmentRepo struct {
	v view
}

func (r *DepartmentRepo) Create(_ context.Context, d *entity.Department) error {
	return r.v.read("departments.Create", func(st *state) error {
		if _, ok := st.departments[d.ID]; ok || departmentCodeTaken(st, d.Code, d.ID) {
			return domain.ErrDuplicate
		}
		st.departments[d.ID] = *d
		return nil
	})
}

func (r *DepartmentRepo) GetByID(_ context.Context, id string) (*entity.Department, error) {
	var out *entity.Department
	err := r.v.read("departments.GetByID", func(st *state) error {
		if d, ok := st.departments[id]; ok {
			out = &d
		}
		return nil
	})
	return out, err
}

func (r *DepartmentRepo) Update(_ context.Context, d *entity.Department) error {
	return r.v.read("departments.Update", func(st *state) error {
		cur, ok := st.departments[d.ID]
		if !ok {
			return nil
		}
		if departmentCodeTaken(st, d.Code, d.ID) {
			return domain.ErrDuplicate
		}
		cur.Code, cur.Name, cur.UpdatedAt = d.Code, d.Name, d.UpdatedAt
		st.departments[d.ID] = cur
		return nil
	})
}

func (r *DepartmentRepo) List(_ context.Context) ([]*entity.Department, error) {
	var out []*entity.Department
	err := r.v.read("departments.List", func(st *state) error {
		for _, d := range st.departments {
			d := d
			if d.Active {
				out = append(out, &d)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r *DepartmentRepo) SoftDelete(_ context.Context, id string) error {
	return r.v.read("departments.SoftDelete", func(st *state) error {
		cur, ok := st.departments[id]
		if !ok {
			return nil
		}
		cur.Active = false
		cur.UpdatedAt = time.Now()
		st.departments[id] = cur
		return nil
	})
}

func departmentCodeTaken(st *state, code, exceptID string) bool {
	for _, other := range st.departments {
		if other.ID != exceptID && other.Active && strings.ToLower(other.Code) == strings.ToLower(code) {
			return true
		}
	}
	return false
}
