package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/sgpme-api/internal/domain"
	"github.com/jhoicas/sgpme-api/internal/domain/entity"
	"github.com/jhoicas/sgpme-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `id, numero_factura, proveedor, monto, marca, categoria, subcategoria, estado, fecha_factura, fecha_creacion`

// InvoiceRepo implementación del puerto InvoiceRepository sobre PostgreSQL.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador de persistencia para facturas.
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// List lista facturas filtrando por categoría, subcategoría y marca (vacío = sin filtro).
func (r *InvoiceRepo) List(ctx context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + ` FROM facturas
		WHERE ($1 = '' OR categoria = $1)
		  AND ($2 = '' OR subcategoria = $2)
		  AND ($3 = '' OR marca = $3)
		ORDER BY fecha_factura DESC, id`
	rows, err := r.q.Query(ctx, query, f.Category, f.Subcategory, f.Brand)
	if err != nil {
		return nil, fmt.Errorf("list facturas: %w", err)
	}
	return scanInvoices(rows)
}

// ListCategoryReferences bloquea y devuelve las facturas afectadas por un renombre.
func (r *InvoiceRepo) ListCategoryReferences(ctx context.Context, from, to string, removed []string) ([]*entity.Invoice, error) {
	if removed == nil {
		removed = []string{}
	}
	query := `
		SELECT ` + invoiceColumns + ` FROM facturas
		WHERE categoria = $1 OR (categoria = $2 AND subcategoria = ANY($3))
		ORDER BY id
		FOR UPDATE`
	rows, err := r.q.Query(ctx, query, from, to, removed)
	if err != nil {
		return nil, fmt.Errorf("list referencias facturas: %w", err)
	}
	return scanInvoices(rows)
}

// UpdateCategory fija categoría y subcategoría (nil = NULL).
func (r *InvoiceRepo) UpdateCategory(ctx context.Context, id, category string, sub *string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE facturas SET categoria = $2, subcategoria = $3 WHERE id = $1`, id, category, sub)
	if err != nil {
		return fmt.Errorf("update categoria factura: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountByCategory cuenta facturas por nombre de categoría.
func (r *InvoiceRepo) CountByCategory(ctx context.Context) (map[string]int, error) {
	rows, err := r.q.Query(ctx, `SELECT categoria, COUNT(*) FROM facturas GROUP BY categoria`)
	if err != nil {
		return nil, fmt.Errorf("count facturas: %w", err)
	}
	return countByCategory(rows)
}

func scanInvoices(rows pgx.Rows) ([]*entity.Invoice, error) {
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		var inv entity.Invoice
		if err := rows.Scan(
			&inv.ID, &inv.Number, &inv.Supplier, &inv.Amount, &inv.Brand,
			&inv.Category, &inv.Subcategory, &inv.Status, &inv.InvoiceDate, &inv.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan factura: %w", err)
		}
		list = append(list, &inv)
	}
	return list, rows.Err()
}
