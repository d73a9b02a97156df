package repository

import (
	"context"

	"github.com/jhoicas/sgpme-api/internal/domain/entity"
)

// ProjectionFilter filtros opcionales del listado de proyecciones.
type ProjectionFilter struct {
	Category string
	Brand    string
	Year     int
}

// ProjectionRepository define el puerto de persistencia para Projection.
type ProjectionRepository interface {
	List(ctx context.Context, f ProjectionFilter) ([]*entity.Projection, error)
	// ListAllForUpdate bloquea todas las proyecciones: las partidas pueden referenciar
	// cualquier categoría con independencia del campo plano.
	ListAllForUpdate(ctx context.Context) ([]*entity.Projection, error)
	UpdateCategoryFields(ctx context.Context, id, category, lineItemsJSON string) error
	CountByCategory(ctx context.Context) (map[string]int, error)
	// LineItemBlobs devuelve id -> partidas_json de todas las proyecciones con partidas.
	LineItemBlobs(ctx context.Context) (map[string]string, error)
}
