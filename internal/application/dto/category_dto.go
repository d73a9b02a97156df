package dto

// CategoryRequest entrada para crear o actualizar una categoría.
// Activo se asume true si no viene en el cuerpo.
type CategoryRequest struct {
	Name          string   `json:"nombre" validate:"required,min=1,max=100"`
	Subcategories []string `json:"subcategorias"`
	Active        *bool    `json:"activo"`
	Order         int      `json:"orden"`
}

// IsActive devuelve el valor de Activo aplicando el default.
func (r CategoryRequest) IsActive() bool {
	return r.Active == nil || *r.Active
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"nombre"`
	Subcategories []string `json:"subcategorias"`
	Active        bool     `json:"activo"`
	Order         int      `json:"orden"`
}

// MigrationReport registros reescritos por un cambio de categoría.
type MigrationReport struct {
	Invoices       int      `json:"facturas_actualizadas"`
	Projections    int      `json:"proyecciones_actualizadas"`
	LineItems      int      `json:"partidas_actualizadas"`
	MonthlyBudgets int      `json:"presupuestos_mensuales_actualizados"`
	AnnualBudgets  int      `json:"presupuestos_anuales_actualizados"`
	SkippedBlobs   []string `json:"partidas_omitidas,omitempty"` // IDs de proyecciones con partidas ilegibles
}

// CategoryUpdateResponse salida de PUT /categorias/{id}.
type CategoryUpdateResponse struct {
	Message   string           `json:"message"`
	Category  CategoryResponse `json:"categoria"`
	Migration MigrationReport  `json:"migracion"`
}

// CategoryUsage referencias a un nombre de categoría por tipo de registro.
type CategoryUsage struct {
	Name           string `json:"nombre"`
	Known          bool   `json:"en_catalogo"` // el nombre existe en la tabla de categorías
	Active         bool   `json:"activo"`
	Invoices       int    `json:"facturas"`
	Projections    int    `json:"proyecciones"`
	LineItems      int    `json:"partidas"`
	MonthlyBudgets int    `json:"presupuestos_mensuales"`
}

// CategoryUsageResponse reporte de uso de categorías.
type CategoryUsageResponse struct {
	Items        []CategoryUsage `json:"items"`
	SkippedBlobs []string        `json:"partidas_omitidas,omitempty"`
}
