package repository

import (
	"context"
	"time"

	"github.com/jhoicas/sgpme-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// PasswordResetRepository códigos de recuperación de contraseña.
type PasswordResetRepository interface {
	Create(ctx context.Context, code *entity.PasswordResetCode) error
	// FindLatestUnused devuelve el código más reciente no usado para email+code, o nil.
	FindLatestUnused(ctx context.Context, email, code string) (*entity.PasswordResetCode, error)
	MarkUsed(ctx context.Context, id string, at time.Time) error
}
