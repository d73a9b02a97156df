package usecase

import (
	"context"
	"encoding/json"

	"github.com/jhoicas/sgpme-api/internal/application/dto"
	"github.com/jhoicas/sgpme-api/internal/domain/entity"
	"github.com/jhoicas/sgpme-api/internal/domain/lineitems"
	"github.com/jhoicas/sgpme-api/internal/domain/repository"
	"github.com/jhoicas/sgpme-api/pkg/logger"
)

// ProjectionUseCase consulta de proyecciones con sus partidas decodificadas.
type ProjectionUseCase struct {
	repo repository.ProjectionRepository
	log  *logger.Logger
}

// NewProjectionUseCase construye el caso de uso.
func NewProjectionUseCase(repo repository.ProjectionRepository, log *logger.Logger) *ProjectionUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ProjectionUseCase{repo: repo, log: log.Component("proyecciones")}
}

// List devuelve las proyecciones del filtro. Una proyección con partidas ilegibles se
// devuelve con partidas vacías y partidas_invalidas=true.
func (uc *ProjectionUseCase) List(ctx context.Context, f repository.ProjectionFilter) ([]dto.ProjectionResponse, error) {
	list, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProjectionResponse, 0, len(list))
	for _, p := range list {
		resp, err := toProjectionResponse(p)
		if err != nil {
			uc.log.Warn().Str("proyeccion_id", p.ID).Err(err).Msg("partidas ilegibles")
		}
		out = append(out, resp)
	}
	return out, nil
}

func toProjectionResponse(p *entity.Projection) (dto.ProjectionResponse, error) {
	resp := dto.ProjectionResponse{
		ID:              p.ID,
		Name:            p.Name,
		Brand:           p.Brand,
		Year:            p.Year,
		Month:           p.Month,
		Category:        p.Category,
		ProjectedAmount: p.ProjectedAmount,
		Status:          p.Status,
		LineItems:       []json.RawMessage{},
		UpdatedAt:       p.UpdatedAt,
	}
	items, err := lineitems.Decode(p.LineItemsJSON)
	if err != nil {
		resp.InvalidLineItems = true
		return resp, err
	}
	for i := range items {
		raw, err := items[i].MarshalJSON()
		if err != nil {
			resp.LineItems = []json.RawMessage{}
			resp.InvalidLineItems = true
			return resp, err
		}
		resp.LineItems = append(resp.LineItems, raw)
	}
	return resp, nil
}
