package repository

import (
	"context"

	"github.com/jhoicas/sgpme-api/internal/domain/entity"
)

// InvoiceFilter filtros opcionales del listado de facturas.
type InvoiceFilter struct {
	Category    string
	Subcategory string
	Brand       string
}

// InvoiceRepository define el puerto de persistencia para Invoice.
type InvoiceRepository interface {
	List(ctx context.Context, f InvoiceFilter) ([]*entity.Invoice, error)
	// ListCategoryReferences bloquea y devuelve las facturas con categoría from, o con
	// categoría to y subcategoría en removed.
	ListCategoryReferences(ctx context.Context, from, to string, removed []string) ([]*entity.Invoice, error)
	UpdateCategory(ctx context.Context, id, category string, subcategory *string) error
	CountByCategory(ctx context.Context) (map[string]int, error)
}
