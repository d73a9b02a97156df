package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sgpme-api/internal/application/auth"
	"github.com/jhoicas/sgpme-api/internal/application/dto"
	"github.com/jhoicas/sgpme-api/pkg/logger"
)

type authService interface {
	Login(ctx context.Context, in dto.LoginRequest) (*dto.TokenResponse, error)
	Me(ctx context.Context, userID string) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, userID string, in dto.ChangePasswordRequest) (*dto.ChangePasswordResponse, error)
	ForgotPassword(ctx context.Context, in dto.ForgotPasswordRequest) (*dto.SuccessResponse, error)
	ResetPassword(ctx context.Context, in dto.ResetPasswordRequest) (*dto.SuccessResponse, error)
}

var _ authService = (*auth.AuthUseCase)(nil)

// AuthHandler maneja login, perfil y contraseñas.
type AuthHandler struct {
	uc  authService
	log *logger.Logger
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc authService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, log: log}
}

// Token godoc
// @Summary      Iniciar sesión
// @Description  Acepta form OAuth2 (username, password) o JSON. username admite el email.
// @Tags         auth
// @Accept       x-www-form-urlencoded,json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username, password"
// @Success      200   {object}  dto.TokenResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/token [post]
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		return badRequest(c, "VALIDATION", "username y password son requeridos")
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// User godoc
// @Summary      Usuario autenticado
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/auth/user [get]
func (h *AuthHandler) User(c *fiber.Ctx) error {
	out, err := h.uc.Me(c.UserContext(), GetUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// ChangePassword godoc
// @Summary      Cambiar contraseña
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ChangePasswordRequest  true  "current_password, new_password"
// @Success      200  {object}  dto.ChangePasswordResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var in dto.ChangePasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.ChangePassword(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// ForgotPassword godoc
// @Summary      Solicitar código de recuperación
// @Description  Responde igual exista o no el email.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ForgotPasswordRequest  true  "email"
// @Success      200  {object}  dto.SuccessResponse
// @Router       /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var in dto.ForgotPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" {
		return badRequest(c, "VALIDATION", "email es requerido")
	}
	out, err := h.uc.ForgotPassword(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// ResetPassword godoc
// @Summary      Restablecer contraseña con código
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ResetPasswordRequest  true  "email, code, new_password"
// @Success      200  {object}  dto.SuccessResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var in dto.ResetPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	in.Email = strings.TrimSpace(in.Email)
	in.Code = strings.TrimSpace(in.Code)
	if in.Email == "" || in.Code == "" {
		return badRequest(c, "VALIDATION", "email y code son requeridos")
	}
	out, err := h.uc.ResetPassword(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
