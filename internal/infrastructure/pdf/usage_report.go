// Package pdf genera el reporte de uso de categorías en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha de generación                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Categoría | Catálogo | Facturas | Proy. | Partidas…  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES por tipo de registro                                │
//	│  FOOTER: proyecciones con partidas ilegibles                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/sgpme-api/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWarning = &props.Color{Red: 170, Green: 60, Blue: 0}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// UsageReportGenerator arma el PDF del reporte de uso con Maroto v2.
type UsageReportGenerator struct {
	appName string
}

// NewUsageReportGenerator construye el generador.
func NewUsageReportGenerator(appName string) *UsageReportGenerator {
	return &UsageReportGenerator{appName: appName}
}

// GenerateUsageReport genera el PDF y devuelve sus bytes.
func (g *UsageReportGenerator) GenerateUsageReport(
	_ context.Context,
	report *dto.CategoryUsageResponse,
	generatedAt time.Time,
) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("pdf: reporte vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Uso de categorías", true).
		WithAuthor(g.appName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.appName, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableRows(report.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(report.Items))

	if len(report.SkippedBlobs) > 0 {
		m.AddRows(line.NewRow(3))
		for _, r := range skippedRows(report.SkippedBlobs) {
			m.AddRows(r)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(appName string, at time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("USO DE CATEGORÍAS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Facturas, proyecciones, partidas y presupuestos por nombre de categoría", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New(appName, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+at.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Categoría", 4, align.Left),
		h("Catálogo", 2, align.Center),
		h("Facturas", 1, align.Right),
		h("Proy.", 1, align.Right),
		h("Partidas", 2, align.Right),
		h("Presup.", 2, align.Right),
	)
}

func tableRows(items []dto.CategoryUsage) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, u := range items {
		status := catalogStatus(u)
		statusProps := props.Text{Size: 8, Align: align.Center, Top: 1}
		if !u.Known {
			statusProps.Color = colorWarning
			statusProps.Style = fontstyle.Bold
		}
		num := func(n int) core.Component {
			return text.New(fmt.Sprintf("%d", n), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})
		}
		result = append(result, row.New(6).Add(
			col.New(4).Add(text.New(u.Name, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(status, statusProps)),
			col.New(1).Add(num(u.Invoices)),
			col.New(1).Add(num(u.Projections)),
			col.New(2).Add(num(u.LineItems)),
			col.New(2).Add(num(u.MonthlyBudgets)),
		))
	}
	return result
}

func totalsRow(items []dto.CategoryUsage) core.Row {
	var inv, proj, li, mb int
	for _, u := range items {
		inv += u.Invoices
		proj += u.Projections
		li += u.LineItems
		mb += u.MonthlyBudgets
	}
	total := func(n int, size int) core.Col {
		return col.New(size).Add(text.New(fmt.Sprintf("%d", n), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		col.New(6).Add(text.New("TOTAL", props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 1, Left: 1,
		})),
		total(inv, 1),
		total(proj, 1),
		total(li, 2),
		total(mb, 2),
	)
}

func skippedRows(ids []string) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("PROYECCIONES CON PARTIDAS ILEGIBLES (no contabilizadas)", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorWarning, Top: 1,
			}),
		)),
	}
	for _, chunk := range splitEvery(ids, 4) {
		rows = append(rows, row.New(4).Add(col.New(12).Add(
			text.New(strings.Join(chunk, ", "), props.Text{Size: 7, Color: colorGray, Top: 0.5, Left: 2}),
		)))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func catalogStatus(u dto.CategoryUsage) string {
	switch {
	case !u.Known:
		return "huérfana"
	case !u.Active:
		return "inactiva"
	}
	return "activa"
}

// splitEvery agrupa ids de a n por línea.
func splitEvery(ids []string, n int) [][]string {
	var parts [][]string
	for len(ids) > n {
		parts = append(parts, ids[:n])
		ids = ids[n:]
	}
	if len(ids) > 0 {
		parts = append(parts, ids)
	}
	return parts
}
