package repository

import (
	"context"

	"github.com/jhoicas/sgpme-api/internal/domain/entity"
)

// MonthlyBudgetFilter filtros opcionales; cero = sin filtro.
type MonthlyBudgetFilter struct {
	Month    int
	Year     int
	Category string
	BrandID  string
}

// MonthlyBudgetRepository define el puerto de persistencia para MonthlyBudget.
type MonthlyBudgetRepository interface {
	List(ctx context.Context, f MonthlyBudgetFilter) ([]*entity.MonthlyBudget, error)
	// ListByCategoryForUpdate bloquea y devuelve los presupuestos de la categoría.
	ListByCategoryForUpdate(ctx context.Context, category string) ([]*entity.MonthlyBudget, error)
	UpdateCategory(ctx context.Context, id, category string) error
	CountByCategory(ctx context.Context) (map[string]int, error)
}
