package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/sgpme-api/internal/application/dto"
	"github.com/jhoicas/sgpme-api/internal/domain"
	"github.com/jhoicas/sgpme-api/internal/domain/entity"
	"github.com/jhoicas/sgpme-api/internal/domain/repository"
	"github.com/jhoicas/sgpme-api/pkg/jwt"
	"github.com/jhoicas/sgpme-api/pkg/logger"
)

const (
	minPasswordLength = 6
	resetCodeDigits   = 6

	MsgResetRequested  = "Si el correo está registrado, recibirás un código de verificación"
	MsgPasswordUpdated = "Contraseña actualizada exitosamente"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Mailer envía el código de recuperación de contraseña.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, code string, ttl time.Duration) error
}

// AuthUseCase casos de uso de autenticación: login, perfil, cambio y recuperación de contraseña.
type AuthUseCase struct {
	userRepo  repository.UserRepository
	resetRepo repository.PasswordResetRepository
	mailer    Mailer
	jwtCfg    JWTConfig
	resetTTL  time.Duration
	log       *logger.Logger
	now       func() time.Time
	newCode   func() (string, error)
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	resetRepo repository.PasswordResetRepository,
	mailer Mailer,
	jwtCfg JWTConfig,
	resetTTL time.Duration,
	log *logger.Logger,
) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{
		userRepo:  userRepo,
		resetRepo: resetRepo,
		mailer:    mailer,
		jwtCfg:    jwtCfg,
		resetTTL:  resetTTL,
		log:       log.Component("auth"),
		now:       time.Now,
		newCode:   randomCode,
	}
}

// Login verifica usuario (o email) y password y emite un JWT.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.TokenResponse, error) {
	var (
		user *entity.User
		err  error
	)
	if strings.Contains(in.Username, "@") {
		user, err = uc.userRepo.GetByEmail(ctx, in.Username)
	} else {
		user, err = uc.userRepo.GetByUsername(ctx, in.Username)
	}
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// Me devuelve el perfil del usuario autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return toUserResponse(user), nil
}

// ChangePassword cambia la contraseña propia validando la actual.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, userID string, in dto.ChangePasswordRequest) (*dto.ChangePasswordResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return nil, domain.ErrWrongPassword
	}
	if err := uc.setPassword(ctx, user.ID, in.NewPassword); err != nil {
		return nil, err
	}
	return &dto.ChangePasswordResponse{Message: MsgPasswordUpdated, Username: user.Username}, nil
}

// ForgotPassword genera y envía un código de recuperación. La respuesta es la misma
// exista o no el email; un fallo del correo se registra y no se propaga.
func (uc *AuthUseCase) ForgotPassword(ctx context.Context, in dto.ForgotPasswordRequest) (*dto.SuccessResponse, error) {
	resp := &dto.SuccessResponse{Message: MsgResetRequested, Success: true}
	user, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return resp, nil
	}

	code, err := uc.newCode()
	if err != nil {
		return nil, fmt.Errorf("generar código: %w", err)
	}
	now := uc.now()
	rc := &entity.PasswordResetCode{
		ID:        uuid.New().String(),
		Email:     in.Email,
		Code:      code,
		ExpiresAt: now.Add(uc.resetTTL),
		CreatedAt: now,
	}
	if err := uc.resetRepo.Create(ctx, rc); err != nil {
		return nil, err
	}
	if err := uc.mailer.SendPasswordReset(ctx, in.Email, code, uc.resetTTL); err != nil {
		uc.log.Error().Err(err).Str("email", in.Email).Msg("no se pudo enviar el código de recuperación")
	}
	return resp, nil
}

// ResetPassword valida el código más reciente no usado y fija la nueva contraseña.
func (uc *AuthUseCase) ResetPassword(ctx context.Context, in dto.ResetPasswordRequest) (*dto.SuccessResponse, error) {
	rc, err := uc.resetRepo.FindLatestUnused(ctx, in.Email, in.Code)
	if err != nil {
		return nil, err
	}
	if rc == nil {
		return nil, domain.ErrInvalidCode
	}
	now := uc.now()
	if rc.Expired(now) {
		return nil, domain.ErrExpiredCode
	}
	if len(strings.TrimSpace(in.NewPassword)) < minPasswordLength {
		return nil, domain.ErrWeakPassword
	}
	user, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := uc.setPassword(ctx, user.ID, in.NewPassword); err != nil {
		return nil, err
	}
	if err := uc.resetRepo.MarkUsed(ctx, rc.ID, now); err != nil {
		return nil, err
	}
	return &dto.SuccessResponse{Message: MsgPasswordUpdated, Success: true}, nil
}

func (uc *AuthUseCase) setPassword(ctx context.Context, userID, password string) error {
	if len(strings.TrimSpace(password)) < minPasswordLength {
		return domain.ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return uc.userRepo.UpdatePassword(ctx, userID, string(hash))
}

func randomCode() (string, error) {
	max := big.NewInt(1_000_000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", resetCodeDigits, n.Int64()), nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
	}
}
