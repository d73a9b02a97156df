package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/sgpme-api/internal/domain"
	"github.com/jhoicas/sgpme-api/internal/domain/entity"
	"github.com/jhoicas/sgpme-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

const categoryColumns = `id, nombre, subcategorias, activo, orden, COALESCE(user_id::text, ''), created_at, updated_at`

// CategoryRepo implementación del puerto CategoryRepository sobre PostgreSQL (usable con pool o tx).
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador de persistencia para categorías. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Create persiste una nueva categoría. El índice único de nombre devuelve ErrDuplicate.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	query := `
		INSERT INTO categorias (id, nombre, subcategorias, activo, orden, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, '')::uuid, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Name, subcategoriesArg(c.Subcategories), c.Active, c.Order, c.UserID, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return writeError("insert categoria", err)
	}
	return nil
}

// GetByID obtiene una categoría por ID.
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+categoryColumns+` FROM categorias WHERE id = $1`, id)
}

// GetByIDForUpdate obtiene la categoría y bloquea su fila (SELECT FOR UPDATE).
func (r *CategoryRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Category, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+categoryColumns+` FROM categorias WHERE id = $1 FOR UPDATE`, id)
}

// GetByName obtiene una categoría por nombre exacto, activa o no.
func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	return r.getOne(ctx, `SELECT `+categoryColumns+` FROM categorias WHERE nombre = $1`, name)
}

func (r *CategoryRepo) getOne(ctx context.Context, query string, arg any) (*entity.Category, error) {
	c, err := scanCategory(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get categoria: %w", err)
	}
	return c, nil
}

// List lista categorías por orden y nombre; active nil = todas.
func (r *CategoryRepo) List(ctx context.Context, active *bool) ([]*entity.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categorias WHERE ($1::boolean IS NULL OR activo = $1) ORDER BY orden, nombre`
	rows, err := r.q.Query(ctx, query, active)
	if err != nil {
		return nil, fmt.Errorf("list categorias: %w", err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan categoria: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update guarda nombre, subcategorías, estado y orden.
func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	query := `
		UPDATE categorias SET nombre = $2, subcategorias = $3, activo = $4, orden = $5, updated_at = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, c.ID, c.Name, subcategoriesArg(c.Subcategories), c.Active, c.Order, c.UpdatedAt)
	if err != nil {
		return writeError("update categoria", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetActive cambia el flag activo. Devuelve false si la categoría no existe.
func (r *CategoryRepo) SetActive(ctx context.Context, id string, active bool) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	cmd, err := r.q.Exec(ctx, `UPDATE categorias SET activo = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return false, fmt.Errorf("set activo categoria: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

func scanCategory(row pgx.Row) (*entity.Category, error) {
	var c entity.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Subcategories, &c.Active, &c.Order, &c.UserID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// subcategoriesArg evita guardar NULL en la columna TEXT[] NOT NULL.
func subcategoriesArg(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
