package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sgpme-api/internal/application/dto"
	"github.com/jhoicas/sgpme-api/internal/domain"
	"github.com/jhoicas/sgpme-api/pkg/logger"
)

type errorMapping struct {
	err     error
	status  int
	code    string
	message string // vacío = err.Error()
}

var errorMappings = []errorMapping{
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND", "Usuario no encontrado"},
	{domain.ErrDuplicate, fiber.StatusBadRequest, "DUPLICATE", ""},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION", ""},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED", "Could not validate credentials"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", "no tienes permisos para esta operación"},
	{domain.ErrInvalidCode, fiber.StatusBadRequest, "INVALID_CODE", "Código inválido o ya utilizado"},
	{domain.ErrExpiredCode, fiber.StatusBadRequest, "EXPIRED_CODE", "El código ha expirado. Solicita uno nuevo"},
	{domain.ErrWeakPassword, fiber.StatusBadRequest, "WEAK_PASSWORD", "La contraseña debe tener al menos 6 caracteres"},
	{domain.ErrWrongPassword, fiber.StatusBadRequest, "WRONG_PASSWORD", "La contraseña actual es incorrecta"},
}

// respondError traduce un error de dominio a status + dto.ErrorResponse. Los errores
// desconocidos se registran y salen como 500 con mensaje genérico.
func respondError(c *fiber.Ctx, log *logger.Logger, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			msg := m.message
			if msg == "" {
				msg = err.Error()
			}
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: msg})
		}
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
