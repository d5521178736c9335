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

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios en memoria.
type UserRepo struct {
	v view
}

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	return r.v.read("users.Create", func(st *state) error {
		if emailTaken(st, u.Email, u.ID) {
			return domain.ErrEmailAlreadyExists
		}
		st.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.v.read("users.GetByID", func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

// GetByEmail solo considera usuarios activos.
func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.v.read("users.GetByEmail", func(st *state) error {
		for _, u := range st.users {
			if u.Active && strings.EqualFold(u.Email, email) {
				u := u
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	return r.v.read("users.Update", func(st *state) error {
		if _, ok := st.users[u.ID]; !ok {
			return nil
		}
		if emailTaken(st, u.Email, u.ID) {
			return domain.ErrEmailAlreadyExists
		}
		st.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepo) List(_ context.Context) ([]*entity.User, error) {
	var out []*entity.User
	err := r.v.read("users.List", func(st *state) error {
		for _, u := range st.users {
			u := u
			if u.Active {
				out = append(out, &u)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r *UserRepo) SoftDelete(_ context.Context, id string) error {
	return r.v.read("users.SoftDelete", func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return nil
		}
		u.Active = false
		u.UpdatedAt = time.Now()
		st.users[id] = u
		return nil
	})
}

func emailTaken(st *state, email, exceptID string) bool {
	for _, other := range st.users {
		if other.ID != exceptID && other.Active && strings.EqualFold(other.Email, email) {
			return true
		}
	}
	return false
}
