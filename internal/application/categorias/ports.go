package categorias

import (
	"context"

	"github.com/jhoicas/sgpme-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// El renombre de una categoría y la reescritura de todas sus copias van en la misma transacción.
type TxRunner interface {
	RunCategorias(ctx context.Context, fn func(
		categoryRepo repository.CategoryRepository,
		invoiceRepo repository.InvoiceRepository,
		projectionRepo repository.ProjectionRepository,
		budgetRepo repository.MonthlyBudgetRepository,
	) error) error
}
