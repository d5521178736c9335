package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/indrhi/suministros-api/internal/application/intake"
	"github.com/indrhi/suministros-api/internal/application/lifecycle"
	"github.com/indrhi/suministros-api/internal/domain/repository"
)

var (
	_ lifecycle.TxRunner = (*TxRunner)(nil)
	_ intake.TxRunner    = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	db Beginner
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(db Beginner) *TxRunner {
	return &TxRunner{db: db}
}

// Run transacción del ciclo de solicitudes: repos de solicitudes y artículos atados a la tx.
func (r *TxRunner) Run(ctx context.Context, fn func(
	requests repository.RequestRepository,
	articles repository.ArticleRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewRequestRepository(tx), NewArticleRepository(tx))
	})
}

// RunIntake transacción de entradas de mercancía.
func (r *TxRunner) RunIntake(ctx context.Context, fn func(
	entries repository.EntryRepository,
	articles repository.ArticleRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewEntryRepository(tx), NewArticleRepository(tx))
	})
}

func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
