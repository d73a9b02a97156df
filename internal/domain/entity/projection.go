package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una proyección.
const (
	ProjectionPending  = "pendiente"
	ProjectionApproved = "aprobada"
)

// Projection proyección de gasto por marca y periodo.
// Category es la categoría principal; LineItemsJSON guarda las partidas serializadas,
// cada una con su propia copia de categoría/subcategoría (ver paquete lineitems).
type Projection struct {
	ID              string
	Name            string
	Brand           string
	Year            int
	Month           *int
	Category        string
	ProjectedAmount decimal.Decimal
	Status          string
	LineItemsJSON   string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
