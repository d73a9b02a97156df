package repository

import (
	"context"

	"github.com/jhoicas/sgpme-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
// Los métodos Get* devuelven (nil, nil) si no existe el registro.
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	// GetByIDForUpdate bloquea la fila hasta el fin de la transacción.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Category, error)
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	List(ctx context.Context, active *bool) ([]*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	// SetActive devuelve false si el ID no existe.
	SetActive(ctx context.Context, id string, active bool) (bool, error)
}
