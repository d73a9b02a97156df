package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sgpme-api/internal/application/dto"
)

func TestGenerateUsageReport(t *testing.T) {
	g := NewUsageReportGenerator("sgpme-api")
	out, err := g.GenerateUsageReport(context.Background(), &dto.CategoryUsageResponse{
		Items: []dto.CategoryUsage{
			{Name: "Digital", Known: true, Active: true, Invoices: 3, Projections: 2, LineItems: 5, MonthlyBudgets: 12},
			{Name: "Relaciones Públicas", Invoices: 1},
		},
		SkippedBlobs: []string{"p1", "p2", "p3", "p4", "p5"},
	}, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "la salida debe ser un PDF")
}

func TestGenerateUsageReport_Nil(t *testing.T) {
	_, err := NewUsageReportGenerator("x").GenerateUsageReport(context.Background(), nil, time.Now())
	assert.Error(t, err)
}

func TestSplitEvery(t *testing.T) {
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, splitEvery([]string{"a", "b", "c"}, 2))
	assert.Nil(t, splitEvery(nil, 2))
}

func TestCatalogStatus(t *testing.T) {
	assert.Equal(t, "huérfana", catalogStatus(dto.CategoryUsage{}))
	assert.Equal(t, "inactiva", catalogStatus(dto.CategoryUsage{Known: true}))
	assert.Equal(t, "activa", catalogStatus(dto.CategoryUsage{Known: true, Active: true}))
}
