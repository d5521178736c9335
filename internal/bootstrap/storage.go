// Package bootstrap arma el almacenamiento y los casos de uso a partir de la configuración.
// Lo comparten el servidor HTTP y la herramienta de línea de comandos.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/indrhi/suministros-api/internal/domain/repository"
	"github.com/indrhi/suministros-api/internal/infrastructure/memory"
	"github.com/indrhi/suministros-api/internal/infrastructure/postgres"
	"github.com/indrhi/suministros-api/pkg/config"
	"github.com/indrhi/suministros-api/pkg/logger"
)

// TxRunner transacciones del ciclo de solicitudes y de las entradas de mercancía.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		requests repository.RequestRepository,
		articles repository.ArticleRepository,
	) error) error
	RunIntake(ctx context.Context, fn func(
		entries repository.EntryRepository,
		articles repository.ArticleRepository,
	) error) error
}

// Storage repositorios de un driver concreto.
type Storage struct {
	Driver      string
	Articles    repository.ArticleRepository
	Departments repository.DepartmentRepository
	Users       repository.UserRepository
	Requests    repository.RequestRepository
	Entries     repository.EntryRepository
	Tx          TxRunner
	Ping        func(ctx context.Context) error
	// Migrate aplica el esquema; no hace nada con el driver en memoria.
	Migrate func(ctx context.Context) ([]string, error)
	Close   func()
}

// OpenStorage abre el driver indicado en STORAGE_DRIVER.
func OpenStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Storage, error) {
	switch cfg.App.StorageDriver {
	case "memory":
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return MemoryStorage(memory.NewStore()), nil
	case "postgres", "":
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		return &Storage{
			Driver:      "postgres",
			Articles:    postgres.NewArticleRepository(pool),
			Departments: postgres.NewDepartmentRepository(pool),
			Users:       postgres.NewUserRepository(pool),
			Requests:    postgres.NewRequestRepository(pool),
			Entries:     postgres.NewEntryRepository(pool),
			Tx:          postgres.NewTxRunner(pool),
			Ping:        pool.Ping,
			Migrate: func(ctx context.Context) ([]string, error) {
				return postgres.Migrate(ctx, pool)
			},
			Close: pool.Close,
		}, nil
	default:
		return nil, fmt.Errorf("driver de almacenamiento desconocido %q", cfg.App.StorageDriver)
	}
}

// MemoryStorage envuelve un almacén en memoria ya creado.
func MemoryStorage(store *memory.Store) *Storage {
	return &Storage{
		Driver:      "memory",
		Articles:    store.Articles(),
		Departments: store.Departments(),
		Users:       store.Users(),
		Requests:    store.Requests(),
		Entries:     store.Entries(),
		Tx:          store,
		Ping:        store.Ping,
		Migrate:     func(context.Context) ([]string, error) { return nil, nil },
		Close:       func() {},
	}
}
