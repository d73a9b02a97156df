package categorias

import "github.com/jhoicas/sgpme-api/internal/application/dto"

// Report registros distintos reescritos por tipo.
// AnnualBudgets es siempre 0: el presupuesto anual no guarda categoría.
type Report struct {
	Invoices       int
	Projections    int // campo plano o partidas modificadas; una proyección con sólo partidas cambiadas también cuenta
	LineItems      int
	MonthlyBudgets int
	AnnualBudgets  int
	SkippedBlobs   []string
}

// Total registros reescritos (las partidas van dentro de sus proyecciones).
func (r Report) Total() int {
	return r.Invoices + r.Projections + r.MonthlyBudgets + r.AnnualBudgets
}

// Empty indica que no se tocó ningún registro.
func (r Report) Empty() bool {
	return r.Total() == 0 && r.LineItems == 0
}

// DTO convierte el reporte a la forma de la respuesta HTTP.
func (r Report) DTO() dto.MigrationReport {
	return dto.MigrationReport{
		Invoices:       r.Invoices,
		Projections:    r.Projections,
		LineItems:      r.LineItems,
		MonthlyBudgets: r.MonthlyBudgets,
		AnnualBudgets:  r.AnnualBudgets,
		SkippedBlobs:   r.SkippedBlobs,
	}
}
