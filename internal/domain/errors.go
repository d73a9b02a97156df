package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound      = errors.New("recurso no encontrado")
	ErrUserNotFound  = errors.New("usuario no encontrado")
	ErrInvalidInput  = errors.New("entrada inválida")
	ErrDuplicate     = errors.New("recurso duplicado")
	ErrUnauthorized  = errors.New("no autorizado")
	ErrForbidden     = errors.New("acceso denegado")
	ErrInvalidCode   = errors.New("código inválido o ya utilizado")
	ErrExpiredCode   = errors.New("el código ha expirado")
	ErrWeakPassword  = errors.New("la contraseña debe tener al menos 6 caracteres")
	ErrWrongPassword = errors.New("la contraseña actual es incorrecta")
)
