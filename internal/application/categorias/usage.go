package categorias

import (
	"context"
	"sort"

	"github.com/jhoicas/sgpme-api/internal/application/dto"
	"github.com/jhoicas/sgpme-api/internal/domain/lineitems"
)

// Usage cuenta, por nombre de categoría, cuántos registros de cada tipo lo referencian.
// Incluye nombres que ya no existen en el catálogo (en_catalogo=false): son copias
// huérfanas que ningún renombre alcanzará.
func (uc *CategoryUseCase) Usage(ctx context.Context) (*dto.CategoryUsageResponse, error) {
	categories, err := uc.categoryRepo.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	invoices, err := uc.invoiceRepo.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}
	projections, err := uc.projectionRepo.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}
	budgets, err := uc.budgetRepo.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}
	blobs, err := uc.projectionRepo.LineItemBlobs(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.CategoryUsageResponse{}
	items := map[string]int{}
	ids := make([]string, 0, len(blobs))
	for id := range blobs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		decoded, err := lineitems.Decode(blobs[id])
		if err != nil {
			uc.log.Warn().Str("proyeccion_id", id).Err(err).Msg("partidas ilegibles, se omiten del reporte")
			resp.SkippedBlobs = append(resp.SkippedBlobs, id)
			continue
		}
		lineitems.CountByCategory(decoded, items)
	}

	row := func(name string) dto.CategoryUsage {
		return dto.CategoryUsage{
			Name:           name,
			Invoices:       invoices[name],
			Projections:    projections[name],
			LineItems:      items[name],
			MonthlyBudgets: budgets[name],
		}
	}

	known := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		known[c.Name] = struct{}{}
		r := row(c.Name)
		r.Known = true
		r.Active = c.Active
		resp.Items = append(resp.Items, r)
	}

	var unknown []string
	for _, counts := range []map[string]int{invoices, projections, items, budgets} {
		for name := range counts {
			if _, ok := known[name]; ok {
				continue
			}
			known[name] = struct{}{}
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		resp.Items = append(resp.Items, row(name))
	}
	return resp, nil
}
