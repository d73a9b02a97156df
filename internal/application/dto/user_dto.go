package dto

// LoginRequest credenciales de POST /auth/token (form OAuth2 o JSON). Username admite el
// nombre de usuario o el email.
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// TokenResponse token de acceso.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// ChangePasswordRequest cambio de contraseña del propio usuario.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// ForgotPasswordRequest solicitud de código de recuperación.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest verificación del código y nueva contraseña.
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required,len=6"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// SuccessResponse respuesta de los flujos de recuperación.
type SuccessResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// ChangePasswordResponse confirmación del cambio de contraseña.
type ChangePasswordResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}
