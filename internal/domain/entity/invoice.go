package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice factura de proveedor imputada a una categoría/subcategoría por nombre.
type Invoice struct {
	ID          string
	Number      string
	Supplier    string
	Amount      decimal.Decimal
	Brand       string // agencia/marca
	Category    string
	Subcategory *string // nil = sin subcategoría
	Status      string  // Pendiente, Autorizada, Pagada
	InvoiceDate time.Time
	CreatedAt   time.Time
}
