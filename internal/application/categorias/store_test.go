package categorias_test

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"

	"github.com/jhoicas/sgpme-api/internal/domain"
	"github.com/jhoicas/sgpme-api/internal/domain/entity"
	"github.com/jhoicas/sgpme-api/internal/domain/repository"
)

var errInjected = errors.New("fallo inyectado")

// memStore implementa los repos de categorías, facturas, proyecciones y presupuestos en
// memoria. RunCategorias restaura el estado previo si fn falla, como un rollback.
type memStore struct {
	mu          sync.Mutex
	categories  map[string]*entity.Category
	invoices    map[string]*entity.Invoice
	projections map[string]*entity.Projection
	budgets     map[string]*entity.MonthlyBudget

	failBudgetUpdate bool
	writes           int
}

func newMemStore() *memStore {
	return &memStore{
		categories:  map[string]*entity.Category{},
		invoices:    map[string]*entity.Invoice{},
		projections: map[string]*entity.Projection{},
		budgets:     map[string]*entity.MonthlyBudget{},
	}
}

type snapshot struct {
	categories  map[string]entity.Category
	invoices    map[string]entity.Invoice
	projections map[string]entity.Projection
	budgets     map[string]entity.MonthlyBudget
}

func (s *memStore) snapshot() snapshot {
	snap := snapshot{
		categories:  map[string]entity.Category{},
		invoices:    map[string]entity.Invoice{},
		projections: map[string]entity.Projection{},
		budgets:     map[string]entity.MonthlyBudget{},
	}
	for id, c := range s.categories {
		cp := *c
		cp.Subcategories = slices.Clone(c.Subcategories)
		snap.categories[id] = cp
	}
	for id, inv := range s.invoices {
		snap.invoices[id] = copyInvoice(inv)
	}
	for id, p := range s.projections {
		snap.projections[id] = *p
	}
	for id, b := range s.budgets {
		snap.budgets[id] = *b
	}
	return snap
}

func (s *memStore) restore(snap snapshot) {
	s.categories = map[string]*entity.Category{}
	for id, c := range snap.categories {
		c := c
		s.categories[id] = &c
	}
	s.invoices = map[string]*entity.Invoice{}
	for id, inv := range snap.invoices {
		inv := inv
		s.invoices[id] = &inv
	}
	s.projections = map[string]*entity.Projection{}
	for id, p := range snap.projections {
		p := p
		s.projections[id] = &p
	}
	s.budgets = map[string]*entity.MonthlyBudget{}
	for id, b := range snap.budgets {
		b := b
		s.budgets[id] = &b
	}
}

func copyInvoice(inv *entity.Invoice) entity.Invoice {
	cp := *inv
	if inv.Subcategory != nil {
		sub := *inv.Subcategory
		cp.Subcategory = &sub
	}
	return cp
}

func (s *memStore) RunCategorias(ctx context.Context, fn func(
	repository.CategoryRepository,
	repository.InvoiceRepository,
	repository.ProjectionRepository,
	repository.MonthlyBudgetRepository,
) error) error {
	s.mu.Lock()
	snap := s.snapshot()
	s.mu.Unlock()
	if err := fn(categoryRepo{s}, invoiceRepo{s}, projectionRepo{s}, budgetRepo{s}); err != nil {
		s.mu.Lock()
		s.restore(snap)
		s.mu.Unlock()
		return err
	}
	return nil
}

// categoryRepo

type categoryRepo struct{ s *memStore }

func (r categoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.categories {
		if other.Name == c.Name {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	cp.Subcategories = slices.Clone(c.Subcategories)
	r.s.categories[c.ID] = &cp
	r.s.writes++
	return nil
}

func (r categoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	cp.Subcategories = slices.Clone(c.Subcategories)
	return &cp, nil
}

func (r categoryRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Category, error) {
	return r.GetByID(ctx, id)
}

func (r categoryRepo) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	r.s.mu.Lock()
	var id string
	for _, c := range r.s.categories {
		if c.Name == name {
			id = c.ID
		}
	}
	r.s.mu.Unlock()
	if id == "" {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

func (r categoryRepo) List(_ context.Context, active *bool) ([]*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Category
	for _, c := range r.s.categories {
		if active != nil && c.Active != *active {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r categoryRepo) Update(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.categories {
		if other.ID != c.ID && other.Name == c.Name {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	cp.Subcategories = slices.Clone(c.Subcategories)
	r.s.categories[c.ID] = &cp
	r.s.writes++
	return nil
}

func (r categoryRepo) SetActive(_ context.Context, id string, active bool) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return false, nil
	}
	c.Active = active
	r.s.writes++
	return true, nil
}

// invoiceRepo

type invoiceRepo struct{ s *memStore }

func (r invoiceRepo) List(_ context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Invoice
	for _, inv := range r.s.invoices {
		if f.Category != "" && inv.Category != f.Category {
			continue
		}
		cp := copyInvoice(inv)
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r invoiceRepo) ListCategoryReferences(_ context.Context, from, to string, removed []string) ([]*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Invoice
	for _, inv := range r.s.invoices {
		match := inv.Category == from ||
			(inv.Category == to && inv.Subcategory != nil && slices.Contains(removed, *inv.Subcategory))
		if !match {
			continue
		}
		cp := copyInvoice(inv)
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r invoiceRepo) UpdateCategory(_ context.Context, id, category string, sub *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.Category = category
	inv.Subcategory = sub
	r.s.writes++
	return nil
}

func (r invoiceRepo) CountByCategory(context.Context) (map[string]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[string]int{}
	for _, inv := range r.s.invoices {
		out[inv.Category]++
	}
	return out, nil
}

// projectionRepo

type projectionRepo struct{ s *memStore }

func (r projectionRepo) List(_ context.Context, f repository.ProjectionFilter) ([]*entity.Projection, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Projection
	for _, p := range r.s.projections {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r projectionRepo) ListAllForUpdate(ctx context.Context) ([]*entity.Projection, error) {
	return r.List(ctx, repository.ProjectionFilter{})
}

func (r projectionRepo) UpdateCategoryFields(_ context.Context, id, category, blob string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.projections[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Category = category
	p.LineItemsJSON = blob
	r.s.writes++
	return nil
}

func (r projectionRepo) CountByCategory(context.Context) (map[string]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[string]int{}
	for _, p := range r.s.projections {
		if p.Category != "" {
			out[p.Category]++
		}
	}
	return out, nil
}

func (r projectionRepo) LineItemBlobs(context.Context) (map[string]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[string]string{}
	for id, p := range r.s.projections {
		if p.LineItemsJSON != "" {
			out[id] = p.LineItemsJSON
		}
	}
	return out, nil
}

// budgetRepo

type budgetRepo struct{ s *memStore }

func (r budgetRepo) List(_ context.Context, f repository.MonthlyBudgetFilter) ([]*entity.MonthlyBudget, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.MonthlyBudget
	for _, b := range r.s.budgets {
		if f.Category != "" && b.Category != f.Category {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r budgetRepo) ListByCategoryForUpdate(ctx context.Context, category string) ([]*entity.MonthlyBudget, error) {
	return r.List(ctx, repository.MonthlyBudgetFilter{Category: category})
}

func (r budgetRepo) UpdateCategory(_ context.Context, id, category string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failBudgetUpdate {
		return errInjected
	}
	b, ok := r.s.budgets[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.Category = category
	r.s.writes++
	return nil
}

func (r budgetRepo) CountByCategory(context.Context) (map[string]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[string]int{}
	for _, b := range r.s.budgets {
		out[b.Category]++
	}
	return out, nil
}
