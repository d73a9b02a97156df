package entity

import "time"

// Roles válidos para User.
const (
	RoleAdministrador = "administrador"
	RoleCoordinador   = "coordinador"
	RoleAuditor       = "auditor"
)

// Action operación sujeta a permisos.
type Action string

// Acciones verificadas por los handlers.
const (
	ActionRead      Action = "read"
	ActionModify    Action = "modify"
	ActionDelete    Action = "delete"
	ActionAuthorize Action = "authorize"
)

var capabilities = map[string]map[Action]bool{
	RoleAdministrador: {ActionRead: true, ActionModify: true, ActionDelete: true, ActionAuthorize: true},
	RoleCoordinador:   {ActionRead: true, ActionModify: true},
	RoleAuditor:       {ActionRead: true},
}

// Can indica si el rol puede ejecutar la acción. Roles desconocidos no pueden nada.
func Can(role string, action Action) bool {
	return capabilities[role][action]
}

// CanManageCatalog indica si el rol puede crear, renombrar o eliminar categorías.
// El catálogo es global a todas las marcas, por eso queda reservado al administrador.
func CanManageCatalog(role string) bool {
	return role == RoleAdministrador
}

// User representa un usuario del sistema.
type User struct {
	ID           string
	Username     string
	Email        string
	FullName     string
	PasswordHash string // bcrypt
	Role         string
	CreatedAt    time.Time
}

// PasswordResetCode código de 6 dígitos enviado por correo para recuperar la contraseña.
type PasswordResetCode struct {
	ID        string
	Email     string
	Code      string
	ExpiresAt time.Time
	Used      bool
	UsedAt    *time.Time
	CreatedAt time.Time
}

// Expired indica si el código ya no es válido en now.
func (c *PasswordResetCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
