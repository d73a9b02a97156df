package usecase

import (
	"context"

	"github.com/jhoicas/sgpme-api/internal/application/dto"
	"github.com/jhoicas/sgpme-api/internal/domain"
	"github.com/jhoicas/sgpme-api/internal/domain/repository"
)

// MonthlyBudgetUseCase consulta del presupuesto mensual por categoría y marca.
type MonthlyBudgetUseCase struct {
	repo repository.MonthlyBudgetRepository
}

// NewMonthlyBudgetUseCase construye el caso de uso.
func NewMonthlyBudgetUseCase(repo repository.MonthlyBudgetRepository) *MonthlyBudgetUseCase {
	return &MonthlyBudgetUseCase{repo: repo}
}

// List devuelve los presupuestos del filtro (año y mes descendentes, luego categoría y marca).
func (uc *MonthlyBudgetUseCase) List(ctx context.Context, f repository.MonthlyBudgetFilter) ([]dto.MonthlyBudgetResponse, error) {
	if f.Month < 0 || f.Month > 12 {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MonthlyBudgetResponse, 0, len(list))
	for _, b := range list {
		out = append(out, dto.MonthlyBudgetResponse{
			ID:         b.ID,
			Month:      b.Month,
			Year:       b.Year,
			Category:   b.Category,
			BrandID:    b.BrandID,
			Amount:     b.Amount,
			BaseAmount: b.BaseAmount,
			ModifiedBy: b.ModifiedBy,
			UpdatedAt:  b.UpdatedAt,
		})
	}
	return out, nil
}
