package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/sgpme-api/internal/domain"
	"github.com/jhoicas/sgpme-api/internal/domain/entity"
	"github.com/jhoicas/sgpme-api/internal/domain/repository"
)

var _ repository.MonthlyBudgetRepository = (*MonthlyBudgetRepo)(nil)

const budgetColumns = `id, mes, anio, categoria, marca_id, monto, monto_mensual_base, modificado_por, fecha_modificacion`

// MonthlyBudgetRepo implementación del puerto MonthlyBudgetRepository sobre PostgreSQL.
type MonthlyBudgetRepo struct {
	q Querier
}

// NewMonthlyBudgetRepository construye el adaptador de persistencia para presupuesto mensual.
func NewMonthlyBudgetRepository(q Querier) *MonthlyBudgetRepo {
	return &MonthlyBudgetRepo{q: q}
}

// List lista presupuestos por año y mes descendentes, luego categoría y marca.
func (r *MonthlyBudgetRepo) List(ctx context.Context, f repository.MonthlyBudgetFilter) ([]*entity.MonthlyBudget, error) {
	query := `
		SELECT ` + budgetColumns + ` FROM presupuesto_mensual
		WHERE ($1 = 0 OR mes = $1)
		  AND ($2 = 0 OR anio = $2)
		  AND ($3 = '' OR categoria = $3)
		  AND ($4 = '' OR marca_id = $4)
		ORDER BY anio DESC, mes DESC, categoria, marca_id`
	rows, err := r.q.Query(ctx, query, f.Month, f.Year, f.Category, f.BrandID)
	if err != nil {
		return nil, fmt.Errorf("list presupuesto mensual: %w", err)
	}
	return scanBudgets(rows)
}

// ListByCategoryForUpdate bloquea y devuelve los presupuestos de la categoría.
func (r *MonthlyBudgetRepo) ListByCategoryForUpdate(ctx context.Context, category string) ([]*entity.MonthlyBudget, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+budgetColumns+` FROM presupuesto_mensual WHERE categoria = $1 ORDER BY id FOR UPDATE`, category)
	if err != nil {
		return nil, fmt.Errorf("list presupuesto mensual for update: %w", err)
	}
	return scanBudgets(rows)
}

// UpdateCategory fija la categoría del presupuesto.
func (r *MonthlyBudgetRepo) UpdateCategory(ctx context.Context, id, category string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE presupuesto_mensual SET categoria = $2, fecha_modificacion = now() WHERE id = $1`, id, category)
	if err != nil {
		return fmt.Errorf("update categoria presupuesto: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountByCategory cuenta presupuestos mensuales por categoría.
func (r *MonthlyBudgetRepo) CountByCategory(ctx context.Context) (map[string]int, error) {
	rows, err := r.q.Query(ctx, `SELECT categoria, COUNT(*) FROM presupuesto_mensual GROUP BY categoria`)
	if err != nil {
		return nil, fmt.Errorf("count presupuesto mensual: %w", err)
	}
	return countByCategory(rows)
}

func scanBudgets(rows pgx.Rows) ([]*entity.MonthlyBudget, error) {
	defer rows.Close()
	var list []*entity.MonthlyBudget
	for rows.Next() {
		var b entity.MonthlyBudget
		if err := rows.Scan(
			&b.ID, &b.Month, &b.Year, &b.Category, &b.BrandID,
			&b.Amount, &b.BaseAmount, &b.ModifiedBy, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan presupuesto mensual: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
