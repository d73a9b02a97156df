package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse respuesta simple con mensaje y, en altas, el ID creado.
type MessageResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}
