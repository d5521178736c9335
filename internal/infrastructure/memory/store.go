// Package memory almacenamiento en memoria con la misma semántica que el de PostgreSQL:
// unicidad, baja lógica, existencia no negativa y transacciones todo-o-nada.
// Se usa para demos (STORAGE_DRIVER=memory) y en las pruebas.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/indrhi/suministros-api/internal/application/intake"
	"github.com/indrhi/suministros-api/internal/application/lifecycle"
	"github.com/indrhi/suministros-api/internal/domain/entity"
	"github.com/indrhi/suministros-api/internal/domain/repository"
)

var (
	_ lifecycle.TxRunner = (*Store)(nil)
	_ intake.TxRunner    = (*Store)(nil)
)

// ErrInjected lo devuelve un FailNext para simular fallos de la DB.
var ErrInjected = errors.New("memory: fallo inyectado")

type state struct {
	articles    map[string]entity.Article
	departments map[string]entity.Department
	users       map[string]entity.User
	requests    map[string]entity.Request
	history     []entity.StatusChange
	entries     map[string]entity.Entry
	entrySeq    map[int]int
	requestSeq  int64
}

func newState() *state {
	return &state{
		articles:    map[string]entity.Article{},
		departments: map[string]entity.Department{},
		users:       map[string]entity.User{},
		requests:    map[string]entity.Request{},
		entries:     map[string]entity.Entry{},
		entrySeq:    map[int]int{},
	}
}

// clone copia profunda; las transacciones trabajan sobre la copia.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.articles {
		c.articles[k] = v
	}
	for k, v := range s.departments {
		c.departments[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.requests {
		v.Items = append([]entity.RequestItem(nil), v.Items...)
		c.requests[k] = v
	}
	c.history = append(c.history, s.history...)
	for k, v := range s.entries {
		v.Items = append([]entity.EntryItem(nil), v.Items...)
		c.entries[k] = v
	}
	for k, v := range s.entrySeq {
		c.entrySeq[k] = v
	}
	c.requestSeq = s.requestSeq
	return c
}

// Store guarda el estado detrás de un único mutex. Una transacción lo retiene
// completo, trabaja sobre una copia y la publica solo si fn termina sin error.
type Store struct {
	mu       sync.Mutex
	st       *state
	failNext map[string]error
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState(), failNext: map[string]error{}}
}

// FailNext hace que la próxima llamada a op ("requests.AppendHistory", "entries.Create", ...) falle.
func (s *Store) FailNext(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		err = ErrInjected
	}
	s.failNext[op] = err
}

// view acceso al estado: directo (con lock por llamada) o atado a una transacción en curso.
type view struct {
	s  *Store
	tx *state
}

func (v view) read(op string, fn func(st *state) error) error {
	if v.tx != nil {
		if err := v.s.injected(op); err != nil {
			return err
		}
		return fn(v.tx)
	}
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if err := v.s.injected(op); err != nil {
		return err
	}
	return fn(v.s.st)
}

// injected se llama con s.mu tomado.
func (s *Store) injected(op string) error {
	if err, ok := s.failNext[op]; ok {
		delete(s.failNext, op)
		return err
	}
	return nil
}

func (s *Store) direct() view { return view{s: s} }

// Articles repositorio de artículos fuera de transacción.
func (s *Store) Articles() *ArticleRepo { return &ArticleRepo{v: s.direct()} }

// Departments repositorio de departamentos.
func (s *Store) Departments() *DepartmentRepo { return &DepartmentRepo{v: s.direct()} }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{v: s.direct()} }

// Requests repositorio de solicitudes fuera de transacción.
func (s *Store) Requests() *RequestRepo { return &RequestRepo{v: s.direct()} }

// Entries repositorio de entradas fuera de transacción.
func (s *Store) Entries() *EntryRepo { return &EntryRepo{v: s.direct()} }

func (s *Store) runTx(ctx context.Context, fn func(v view) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.st.clone()
	if err := fn(view{s: s, tx: work}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}

// Run transacción del ciclo de solicitudes.
func (s *Store) Run(ctx context.Context, fn func(
	requests repository.RequestRepository,
	articles repository.ArticleRepository,
) error) error {
	return s.runTx(ctx, func(v view) error {
		return fn(&RequestRepo{v: v}, &ArticleRepo{v: v})
	})
}

// RunIntake transacción de entradas de mercancía.
func (s *Store) RunIntake(ctx context.Context, fn func(
	entries repository.EntryRepository,
	articles repository.ArticleRepository,
) error) error {
	return s.runTx(ctx, func(v view) error {
		return fn(&EntryRepo{v: v}, &ArticleRepo{v: v})
	})
}

// Ping siempre disponible.
func (s *Store) Ping(context.Context) error { return nil }
