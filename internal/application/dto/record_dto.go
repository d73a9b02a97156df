package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceResponse salida de una factura.
type InvoiceResponse struct {
	ID          string          `json:"id"`
	Number      string          `json:"numero_factura"`
	Supplier    string          `json:"proveedor"`
	Amount      decimal.Decimal `json:"monto"`
	Brand       string          `json:"marca"`
	Category    string          `json:"categoria"`
	Subcategory *string         `json:"subcategoria"`
	Status      string          `json:"estado"`
	InvoiceDate time.Time       `json:"fecha_factura"`
	CreatedAt   time.Time       `json:"fecha_creacion"`
}

// ProjectionResponse salida de una proyección. Partidas va decodificado; si el blob
// no es legible se devuelve vacío con InvalidLineItems en true.
type ProjectionResponse struct {
	ID               string            `json:"id"`
	Name             string            `json:"nombre"`
	Brand            string            `json:"marca"`
	Year             int               `json:"anio"`
	Month            *int              `json:"mes"`
	Category         string            `json:"categoria"`
	ProjectedAmount  decimal.Decimal   `json:"monto_proyectado"`
	Status           string            `json:"estado"`
	LineItems        []json.RawMessage `json:"partidas"`
	InvalidLineItems bool              `json:"partidas_invalidas,omitempty"`
	UpdatedAt        time.Time         `json:"fecha_actualizacion"`
}

// MonthlyBudgetResponse salida de un presupuesto mensual.
type MonthlyBudgetResponse struct {
	ID         string          `json:"id"`
	Month      int             `json:"mes"`
	Year       int             `json:"anio"`
	Category   string          `json:"categoria"`
	BrandID    string          `json:"marca_id"`
	Amount     decimal.Decimal `json:"monto"`
	BaseAmount decimal.Decimal `json:"monto_mensual_base"`
	ModifiedBy string          `json:"modificado_por"`
	UpdatedAt  time.Time       `json:"fecha_modificacion"`
}
