package categorias

import (
	"context"
	"fmt"

	"github.com/jhoicas/sgpme-api/internal/domain/repository"
)

// Reconciler escribe un plan registro por registro. Debe correr en la misma transacción
// en que se armó el plan; cualquier error aborta la transacción completa.
type Reconciler struct{}

// NewReconciler construye el reconciliador.
func NewReconciler() *Reconciler {
	return &Reconciler{}
}

// Apply reescribe facturas, proyecciones y presupuestos mensuales según el plan.
func (r *Reconciler) Apply(
	ctx context.Context,
	plan *Plan,
	invoiceRepo repository.InvoiceRepository,
	projectionRepo repository.ProjectionRepository,
	budgetRepo repository.MonthlyBudgetRepository,
) (Report, error) {
	for _, ch := range plan.Invoices {
		if err := invoiceRepo.UpdateCategory(ctx, ch.ID, ch.Category, ch.Subcategory); err != nil {
			return Report{}, fmt.Errorf("factura %s: %w", ch.ID, err)
		}
	}
	for _, ch := range plan.Projections {
		if err := projectionRepo.UpdateCategoryFields(ctx, ch.ID, ch.Category, ch.LineItemsJSON); err != nil {
			return Report{}, fmt.Errorf("proyección %s: %w", ch.ID, err)
		}
	}
	for _, id := range plan.MonthlyBudgets {
		if err := budgetRepo.UpdateCategory(ctx, id, plan.Rename.To); err != nil {
			return Report{}, fmt.Errorf("presupuesto mensual %s: %w", id, err)
		}
	}
	return plan.Report(), nil
}
