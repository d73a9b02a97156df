package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/sgpme-api/internal/domain"
	"github.com/jhoicas/sgpme-api/internal/domain/entity"
	"github.com/jhoicas/sgpme-api/internal/domain/repository"
)

var _ repository.ProjectionRepository = (*ProjectionRepo)(nil)

const projectionColumns = `id, nombre, marca, anio, mes, categoria, monto_proyectado, estado, COALESCE(partidas_json, ''), created_at, updated_at`

// ProjectionRepo implementación del puerto ProjectionRepository sobre PostgreSQL.
type ProjectionRepo struct {
	q Querier
}

// NewProjectionRepository construye el adaptador de persistencia para proyecciones.
func NewProjectionRepository(q Querier) *ProjectionRepo {
	return &ProjectionRepo{q: q}
}

// List lista proyecciones filtrando por categoría plana, marca y año (cero = sin filtro).
func (r *ProjectionRepo) List(ctx context.Context, f repository.ProjectionFilter) ([]*entity.Projection, error) {
	query := `
		SELECT ` + projectionColumns + ` FROM proyecciones
		WHERE ($1 = '' OR categoria = $1)
		  AND ($2 = '' OR marca = $2)
		  AND ($3 = 0 OR anio = $3)
		ORDER BY anio DESC, mes DESC NULLS LAST, id`
	rows, err := r.q.Query(ctx, query, f.Category, f.Brand, f.Year)
	if err != nil {
		return nil, fmt.Errorf("list proyecciones: %w", err)
	}
	return scanProjections(rows)
}

// ListAllForUpdate bloquea y devuelve todas las proyecciones.
func (r *ProjectionRepo) ListAllForUpdate(ctx context.Context) ([]*entity.Projection, error) {
	rows, err := r.q.Query(ctx, `SELECT `+projectionColumns+` FROM proyecciones ORDER BY id FOR UPDATE`)
	if err != nil {
		return nil, fmt.Errorf("list proyecciones for update: %w", err)
	}
	return scanProjections(rows)
}

// UpdateCategoryFields fija la categoría plana y el blob de partidas (vacío = NULL).
func (r *ProjectionRepo) UpdateCategoryFields(ctx context.Context, id, category, lineItemsJSON string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE proyecciones SET categoria = $2, partidas_json = NULLIF($3, ''), updated_at = now() WHERE id = $1`,
		id, category, lineItemsJSON,
	)
	if err != nil {
		return fmt.Errorf("update categoria proyeccion: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountByCategory cuenta proyecciones por categoría plana.
func (r *ProjectionRepo) CountByCategory(ctx context.Context) (map[string]int, error) {
	rows, err := r.q.Query(ctx, `SELECT categoria, COUNT(*) FROM proyecciones WHERE categoria <> '' GROUP BY categoria`)
	if err != nil {
		return nil, fmt.Errorf("count proyecciones: %w", err)
	}
	return countByCategory(rows)
}

// LineItemBlobs devuelve id -> partidas_json de las proyecciones con partidas.
func (r *ProjectionRepo) LineItemBlobs(ctx context.Context) (map[string]string, error) {
	rows, err := r.q.Query(ctx, `SELECT id, partidas_json FROM proyecciones WHERE COALESCE(partidas_json, '') <> ''`)
	if err != nil {
		return nil, fmt.Errorf("list partidas: %w", err)
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var id, blob string
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, fmt.Errorf("scan partidas: %w", err)
		}
		out[id] = blob
	}
	return out, rows.Err()
}

func scanProjections(rows pgx.Rows) ([]*entity.Projection, error) {
	defer rows.Close()
	var list []*entity.Projection
	for rows.Next() {
		var p entity.Projection
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Brand, &p.Year, &p.Month, &p.Category,
			&p.ProjectedAmount, &p.Status, &p.LineItemsJSON, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan proyeccion: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
