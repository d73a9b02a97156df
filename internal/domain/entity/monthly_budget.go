package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyBudget presupuesto mensual por categoría y marca.
type MonthlyBudget struct {
	ID         string
	Month      int // 1-12
	Year       int
	Category   string
	BrandID    string
	Amount     decimal.Decimal
	BaseAmount decimal.Decimal // monto base usado para auto-rellenar meses
	ModifiedBy string
	UpdatedAt  time.Time
}
