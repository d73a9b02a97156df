package categorias

import (
	"context"
	"fmt"

	"github.com/jhoicas/sgpme-api/internal/domain/entity"
	"github.com/jhoicas/sgpme-api/internal/domain/lineitems"
	"github.com/jhoicas/sgpme-api/internal/domain/repository"
	"github.com/jhoicas/sgpme-api/pkg/logger"
)

// InvoiceChange valores finales de categoría y subcategoría de una factura.
type InvoiceChange struct {
	ID          string
	Category    string
	Subcategory *string
}

// ProjectionChange valores finales de una proyección. LineItemsJSON es el blob original
// cuando BlobChanged es false.
type ProjectionChange struct {
	ID            string
	Category      string
	LineItemsJSON string
	FlatChanged   bool
	BlobChanged   bool
	LineItems     int // partidas modificadas dentro del blob
}

// Plan registros a reescribir por un cambio de categoría. Cada registro aparece una sola vez.
type Plan struct {
	Rename         entity.CategoryRename
	Invoices       []InvoiceChange
	Projections    []ProjectionChange
	MonthlyBudgets []string // IDs; la categoría final es Rename.To
	LineItems      int
	SkippedBlobs   []string // IDs de proyecciones con partidas ilegibles
}

// Empty indica que el plan no reescribe ningún registro.
func (p *Plan) Empty() bool {
	return len(p.Invoices) == 0 && len(p.Projections) == 0 && len(p.MonthlyBudgets) == 0
}

// Report conteos del plan.
func (p *Plan) Report() Report {
	return Report{
		Invoices:       len(p.Invoices),
		Projections:    len(p.Projections),
		LineItems:      p.LineItems,
		MonthlyBudgets: len(p.MonthlyBudgets),
		SkippedBlobs:   p.SkippedBlobs,
	}
}

// Scanner localiza los registros que referencian una categoría. No escribe.
type Scanner struct {
	log *logger.Logger
}

// NewScanner construye el scanner.
func NewScanner(log *logger.Logger) *Scanner {
	if log == nil {
		log = logger.Nop()
	}
	return &Scanner{log: log}
}

// Scan lee (con bloqueo de fila) los candidatos de los tres tipos de registro y arma el plan.
func (s *Scanner) Scan(
	ctx context.Context,
	rename entity.CategoryRename,
	invoiceRepo repository.InvoiceRepository,
	projectionRepo repository.ProjectionRepository,
	budgetRepo repository.MonthlyBudgetRepository,
) (*Plan, error) {
	plan := &Plan{Rename: rename}
	if rename.IsNoop() {
		return plan, nil
	}

	invoices, err := invoiceRepo.ListCategoryReferences(ctx, rename.From, rename.To, rename.RemovedList())
	if err != nil {
		return nil, fmt.Errorf("scan facturas: %w", err)
	}
	plan.Invoices = planInvoices(rename, invoices)

	projections, err := projectionRepo.ListAllForUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan proyecciones: %w", err)
	}
	plan.Projections, plan.LineItems, plan.SkippedBlobs = planProjections(rename, projections)
	for _, id := range plan.SkippedBlobs {
		s.log.Warn().Str("proyeccion_id", id).Str("categoria", rename.From).
			Msg("partidas ilegibles, se omiten en la migración")
	}

	if rename.Renames() {
		budgets, err := budgetRepo.ListByCategoryForUpdate(ctx, rename.From)
		if err != nil {
			return nil, fmt.Errorf("scan presupuestos mensuales: %w", err)
		}
		for _, b := range budgets {
			plan.MonthlyBudgets = append(plan.MonthlyBudgets, b.ID)
		}
	}
	return plan, nil
}

func planInvoices(rename entity.CategoryRename, invoices []*entity.Invoice) []InvoiceChange {
	var out []InvoiceChange
	for _, inv := range invoices {
		cat, sub, changed := rename.Apply(inv.Category, inv.Subcategory)
		if !changed {
			continue
		}
		out = append(out, InvoiceChange{ID: inv.ID, Category: cat, Subcategory: sub})
	}
	return out
}

// planProjections revisa el campo plano y las partidas de cada proyección. Un blob ilegible
// no detiene el plan: el campo plano se migra igual y el ID queda en skipped.
func planProjections(rename entity.CategoryRename, projections []*entity.Projection) (changes []ProjectionChange, lineItems int, skipped []string) {
	for _, p := range projections {
		ch := ProjectionChange{ID: p.ID, Category: p.Category, LineItemsJSON: p.LineItemsJSON}
		if rename.Renames() && p.Category == rename.From {
			ch.Category = rename.To
			ch.FlatChanged = true
		}

		items, err := lineitems.Decode(p.LineItemsJSON)
		if err != nil {
			skipped = append(skipped, p.ID)
		} else if n := lineitems.Apply(items, rename); n > 0 {
			blob, err := lineitems.Encode(items)
			if err != nil {
				skipped = append(skipped, p.ID)
			} else {
				ch.LineItemsJSON = blob
				ch.BlobChanged = true
				ch.LineItems = n
			}
		}

		if ch.FlatChanged || ch.BlobChanged {
			changes = append(changes, ch)
			lineItems += ch.LineItems
		}
	}
	return changes, lineItems, skipped
}
