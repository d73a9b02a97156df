package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/sgpme-api/internal/domain/entity"
	"github.com/jhoicas/sgpme-api/internal/domain/repository"
)

var _ repository.PasswordResetRepository = (*PasswordResetRepo)(nil)

// PasswordResetRepo códigos de recuperación de contraseña sobre PostgreSQL.
type PasswordResetRepo struct {
	q Querier
}

// NewPasswordResetRepository construye el adaptador.
func NewPasswordResetRepository(q Querier) *PasswordResetRepo {
	return &PasswordResetRepo{q: q}
}

// Create guarda un código nuevo.
func (r *PasswordResetRepo) Create(ctx context.Context, c *entity.PasswordResetCode) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO password_reset_codes (id, email, code, expires_at, used, created_at) VALUES ($1, $2, $3, $4, false, $5)`,
		c.ID, c.Email, c.Code, c.ExpiresAt, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert reset code: %w", err)
	}
	return nil
}

// FindLatestUnused devuelve el código más reciente no usado para email y code.
func (r *PasswordResetRepo) FindLatestUnused(ctx context.Context, email, code string) (*entity.PasswordResetCode, error) {
	query := `
		SELECT id, email, code, expires_at, used, used_at, created_at
		FROM password_reset_codes
		WHERE email = $1 AND code = $2 AND used = false
		ORDER BY created_at DESC
		LIMIT 1`
	var c entity.PasswordResetCode
	err := r.q.QueryRow(ctx, query, email, code).Scan(
		&c.ID, &c.Email, &c.Code, &c.ExpiresAt, &c.Used, &c.UsedAt, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reset code: %w", err)
	}
	return &c, nil
}

// MarkUsed marca el código como usado.
func (r *PasswordResetRepo) MarkUsed(ctx context.Context, id string, at time.Time) error {
	_, err := r.q.Exec(ctx, `UPDATE password_reset_codes SET used = true, used_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("mark reset code used: %w", err)
	}
	return nil
}
