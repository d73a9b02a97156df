package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/sgpme-api/internal/application/categorias"
	"github.com/jhoicas/sgpme-api/internal/domain/repository"
)

var _ categorias.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunCategorias inicia una transacción con los repos de categorías y de los registros que
// guardan copias del nombre, ejecuta fn y hace Commit o Rollback.
// Un 23505 en el commit (dos renombres al mismo nombre) se reporta como ErrDuplicate.
func (r *TxRunner) RunCategorias(ctx context.Context, fn func(
	categoryRepo repository.CategoryRepository,
	invoiceRepo repository.InvoiceRepository,
	projectionRepo repository.ProjectionRepository,
	budgetRepo repository.MonthlyBudgetRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	categoryRepo := NewCategoryRepository(tx)
	invoiceRepo := NewInvoiceRepository(tx)
	projectionRepo := NewProjectionRepository(tx)
	budgetRepo := NewMonthlyBudgetRepository(tx)

	if err := fn(categoryRepo, invoiceRepo, projectionRepo, budgetRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return writeError("commit transaction", err)
	}
	return nil
}
