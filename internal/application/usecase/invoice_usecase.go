package usecase

import (
	"context"

	"github.com/jhoicas/sgpme-api/internal/application/dto"
	"github.com/jhoicas/sgpme-api/internal/domain/entity"
	"github.com/jhoicas/sgpme-api/internal/domain/repository"
)

// InvoiceUseCase consulta de facturas por categoría, subcategoría y marca.
type InvoiceUseCase struct {
	repo repository.InvoiceRepository
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(repo repository.InvoiceRepository) *InvoiceUseCase {
	return &InvoiceUseCase{repo: repo}
}

// List devuelve las facturas que cumplen el filtro.
func (uc *InvoiceUseCase) List(ctx context.Context, f repository.InvoiceFilter) ([]dto.InvoiceResponse, error) {
	list, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, toInvoiceResponse(inv))
	}
	return out, nil
}

func toInvoiceResponse(inv *entity.Invoice) dto.InvoiceResponse {
	return dto.InvoiceResponse{
		ID:          inv.ID,
		Number:      inv.Number,
		Supplier:    inv.Supplier,
		Amount:      inv.Amount,
		Brand:       inv.Brand,
		Category:    inv.Category,
		Subcategory: inv.Subcategory,
		Status:      inv.Status,
		InvoiceDate: inv.InvoiceDate,
		CreatedAt:   inv.CreatedAt,
	}
}
