package categorias_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sgpme-api/internal/application/categorias"
	"github.com/jhoicas/sgpme-api/internal/application/dto"
	"github.com/jhoicas/sgpme-api/internal/domain"
	"github.com/jhoicas/sgpme-api/internal/domain/entity"
	"github.com/jhoicas/sgpme-api/pkg/logger"
)

const relacionesPublicas = "Relaciones Públicas"

func ptr(s string) *string { return &s }

func newUseCase(s *memStore) *categorias.CategoryUseCase {
	return categorias.NewCategoryUseCase(s, categoryRepo{s}, invoiceRepo{s}, projectionRepo{s}, budgetRepo{s}, logger.Nop())
}

// seedScenario carga "Relaciones Públicas" con una factura, una proyección y un presupuesto.
func seedScenario(s *memStore) {
	s.categories["cat-rp"] = &entity.Category{
		ID: "cat-rp", Name: relacionesPublicas, Active: true, Order: 5,
		Subcategories: []string{"Eventos en Agencia", "Lanzamientos"},
	}
	s.categories["cat-dig"] = &entity.Category{
		ID: "cat-dig", Name: "Digital", Active: true, Order: 2,
		Subcategories: []string{"WEB", "Lanzamientos"},
	}
	s.invoices["f1"] = &entity.Invoice{ID: "f1", Category: relacionesPublicas, Subcategory: ptr("Lanzamientos")}
	s.invoices["f2"] = &entity.Invoice{ID: "f2", Category: "Digital", Subcategory: ptr("Lanzamientos")}
	s.projections["p1"] = &entity.Projection{
		ID: "p1", Category: relacionesPublicas,
		LineItemsJSON: `[{"id":"a","categoria":"Relaciones Públicas","subcategoria":"Eventos en Agencia","monto":100}]`,
	}
	s.budgets["m1"] = &entity.MonthlyBudget{ID: "m1", Month: 3, Year: 2024, Category: relacionesPublicas, BrandID: "b1"}
}

func renameRequest() dto.CategoryRequest {
	return dto.CategoryRequest{Name: "Eventos", Subcategories: []string{"Eventos en Agencia"}, Order: 5}
}

func TestUpdate_RenombraEnCascada(t *testing.T) {
	s := newMemStore()
	seedScenario(s)
	uc := newUseCase(s)

	resp, err := uc.Update(context.Background(), "cat-rp", renameRequest())
	require.NoError(t, err)

	want := dto.MigrationReport{Invoices: 1, Projections: 1, LineItems: 1, MonthlyBudgets: 1}
	if diff := cmp.Diff(want, resp.Migration); diff != "" {
		t.Errorf("reporte (-want +got):\n%s", diff)
	}
	assert.Equal(t, categorias.MsgUpdated, resp.Message)
	assert.Equal(t, "Eventos", resp.Category.Name)
	assert.Equal(t, []string{"Eventos en Agencia"}, resp.Category.Subcategories)
	assert.True(t, resp.Category.Active, "activo por defecto")

	assert.Equal(t, "Eventos", s.invoices["f1"].Category)
	assert.Nil(t, s.invoices["f1"].Subcategory, "Lanzamientos salió del vocabulario")
	assert.Equal(t, "Digital", s.invoices["f2"].Category)
	assert.Equal(t, "Lanzamientos", *s.invoices["f2"].Subcategory, "otra categoría no se toca")

	assert.Equal(t, "Eventos", s.projections["p1"].Category)
	assert.Equal(t,
		`[{"id":"a","categoria":"Eventos","subcategoria":"Eventos en Agencia","monto":100}]`,
		s.projections["p1"].LineItemsJSON)
	assert.Equal(t, "Eventos", s.budgets["m1"].Category)
	assert.Equal(t, "Eventos", s.categories["cat-rp"].Name)
}

func TestUpdate_ConteosCoincidenConConsulta(t *testing.T) {
	s := newMemStore()
	seedScenario(s)
	s.invoices["f3"] = &entity.Invoice{ID: "f3", Category: relacionesPublicas}
	s.budgets["m2"] = &entity.MonthlyBudget{ID: "m2", Month: 4, Year: 2024, Category: relacionesPublicas}
	uc := newUseCase(s)

	before, err := invoiceRepo{s}.CountByCategory(context.Background())
	require.NoError(t, err)
	resp, err := uc.Update(context.Background(), "cat-rp", renameRequest())
	require.NoError(t, err)

	after, err := invoiceRepo{s}.CountByCategory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before[relacionesPublicas], resp.Migration.Invoices)
	assert.Equal(t, resp.Migration.Invoices, after["Eventos"])
	assert.Zero(t, after[relacionesPublicas])

	budgets, err := budgetRepo{s}.CountByCategory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, resp.Migration.MonthlyBudgets, budgets["Eventos"])
}

func TestUpdate_FalloRevierteTodo(t *testing.T) {
	s := newMemStore()
	seedScenario(s)
	s.failBudgetUpdate = true
	before := s.snapshot()
	uc := newUseCase(s)

	_, err := uc.Update(context.Background(), "cat-rp", renameRequest())
	require.ErrorIs(t, err, errInjected)
	assert.Equal(t, before, s.snapshot(), "ningún registro queda a medio migrar")
}

func TestUpdate_SinCambiosNoEscribe(t *testing.T) {
	s := newMemStore()
	seedScenario(s)
	uc := newUseCase(s)

	resp, err := uc.Update(context.Background(), "cat-rp", dto.CategoryRequest{
		Name:          relacionesPublicas,
		Subcategories: []string{"Eventos en Agencia", "Lanzamientos"},
		Order:         5,
	})
	require.NoError(t, err)
	assert.Equal(t, dto.MigrationReport{}, resp.Migration)
	assert.Zero(t, s.writes)
}

func TestUpdate_SoloQuitaSubcategoria(t *testing.T) {
	s := newMemStore()
	seedScenario(s)
	s.projections["p2"] = &entity.Projection{
		ID: "p2", Category: "Digital",
		LineItemsJSON: `[{"categoria":"Relaciones Públicas","subcategoria":"Lanzamientos"},{"categoria":"Digital","subcategoria":"Lanzamientos"}]`,
	}
	uc := newUseCase(s)

	resp, err := uc.Update(context.Background(), "cat-rp", dto.CategoryRequest{
		Name: relacionesPublicas, Subcategories: []string{"Eventos en Agencia"}, Order: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Migration.Invoices)
	assert.Equal(t, 1, resp.Migration.Projections)
	assert.Equal(t, 1, resp.Migration.LineItems)
	assert.Zero(t, resp.Migration.MonthlyBudgets, "sin renombre los presupuestos no cambian")

	assert.Nil(t, s.invoices["f1"].Subcategory)
	assert.Equal(t, "Lanzamientos", *s.invoices["f2"].Subcategory)
	assert.Equal(t,
		`[{"categoria":"Relaciones Públicas","subcategoria":null},{"categoria":"Digital","subcategoria":"Lanzamientos"}]`,
		s.projections["p2"].LineItemsJSON)
	assert.Equal(t, relacionesPublicas, s.projections["p1"].Category)
}

func TestUpdate_PartidasMalFormadas(t *testing.T) {
	s := newMemStore()
	seedScenario(s)
	s.projections["p0"] = &entity.Projection{ID: "p0", Category: relacionesPublicas, LineItemsJSON: `{no es json`}
	uc := newUseCase(s)

	resp, err := uc.Update(context.Background(), "cat-rp", renameRequest())
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Migration.Projections, "el campo plano se migra igual")
	assert.Equal(t, 1, resp.Migration.LineItems)
	assert.Equal(t, []string{"p0"}, resp.Migration.SkippedBlobs)
	assert.Equal(t, "Eventos", s.projections["p0"].Category)
	assert.Equal(t, `{no es json`, s.projections["p0"].LineItemsJSON)
}

func TestUpdate_NombreDuplicado(t *testing.T) {
	s := newMemStore()
	seedScenario(s)
	before := s.snapshot()
	uc := newUseCase(s)

	for _, name := range []string{"Digital", "  Digital\t"} {
		_, err := uc.Update(context.Background(), "cat-rp", dto.CategoryRequest{Name: name})
		assert.ErrorIs(t, err, domain.ErrDuplicate, "nombre %q", name)
		var dup *categorias.DuplicateNameError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "Digital", dup.Name, "el error lleva el nombre normalizado")
	}
	assert.Equal(t, before, s.snapshot())
}

func TestUpdate_NombreDeCategoriaInactiva(t *testing.T) {
	s := newMemStore()
	seedScenario(s)
	s.categories["cat-dig"].Active = false
	before := s.snapshot()
	uc := newUseCase(s)

	_, err := uc.Update(context.Background(), "cat-rp", dto.CategoryRequest{Name: "Digital"})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "el nombre sigue reservado aunque la categoría esté eliminada")
	assert.Equal(t, before, s.snapshot())
	assert.Zero(t, s.writes)
}

func TestCreate_NombreDeCategoriaInactiva(t *testing.T) {
	s := newMemStore()
	seedScenario(s)
	s.categories["cat-dig"].Active = false
	before := s.snapshot()
	uc := newUseCase(s)

	_, err := uc.Create(context.Background(), "u1", dto.CategoryRequest{Name: " Digital "})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	var dup *categorias.DuplicateNameError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "Digital", dup.Name)
	assert.Equal(t, before, s.snapshot())
	assert.Len(t, s.categories, 2)
}

func TestUpdate_SubcategoriaGuardadaEnNFD(t *testing.T) {
	// "o" seguida del acento combinado, como la guardaban capturas antiguas.
	const legacy = "Promocio\u0301n"
	newStore := func() *memStore {
		s := newMemStore()
		seedScenario(s)
		s.categories["cat-rp"].Subcategories = append(s.categories["cat-rp"].Subcategories, legacy)
		s.invoices["f3"] = &entity.Invoice{ID: "f3", Category: relacionesPublicas, Subcategory: ptr(legacy)}
		return s
	}

	t.Run("reenviada en NFC se conserva", func(t *testing.T) {
		s := newStore()
		uc := newUseCase(s)
		resp, err := uc.Update(context.Background(), "cat-rp", dto.CategoryRequest{
			Name:          relacionesPublicas,
			Subcategories: []string{"Eventos en Agencia", "Lanzamientos", "Promoción"},
			Order:         5,
		})
		require.NoError(t, err)
		assert.Zero(t, resp.Migration.Invoices)
		require.NotNil(t, s.invoices["f3"].Subcategory)
		assert.Equal(t, legacy, *s.invoices["f3"].Subcategory)
	})

	t.Run("quitada se vuelve huérfana", func(t *testing.T) {
		s := newStore()
		uc := newUseCase(s)
		resp, err := uc.Update(context.Background(), "cat-rp", dto.CategoryRequest{
			Name:          relacionesPublicas,
			Subcategories: []string{"Eventos en Agencia", "Lanzamientos"},
			Order:         5,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Migration.Invoices)
		assert.Nil(t, s.invoices["f3"].Subcategory)
	})
}

func TestUpdate_NoExiste(t *testing.T) {
	uc := newUseCase(newMemStore())
	_, err := uc.Update(context.Background(), "nope", renameRequest())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_NombreInvalido(t *testing.T) {
	s := newMemStore()
	seedScenario(s)
	uc := newUseCase(s)
	_, err := uc.Update(context.Background(), "cat-rp", dto.CategoryRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate(t *testing.T) {
	s := newMemStore()
	seedScenario(s)
	uc := newUseCase(s)

	inactive := false
	got, err := uc.Create(context.Background(), "u1", dto.CategoryRequest{
		Name:          "  Eventos ",
		Subcategories: []string{"Ferias", " ", "Ferias", " Congresos "},
		Active:        &inactive,
		Order:         8,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	want := dto.CategoryResponse{ID: got.ID, Name: "Eventos", Subcategories: []string{"Ferias", "Congresos"}, Order: 8}
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Errorf("categoría (-want +got):\n%s", diff)
	}
	assert.Equal(t, "u1", s.categories[got.ID].UserID)

	// "u" seguida del acento combinado (NFD).
	_, err = uc.Create(context.Background(), "u1", dto.CategoryRequest{Name: "Relaciones Pu\u0301blicas"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestDeactivateRestore(t *testing.T) {
	s := newMemStore()
	seedScenario(s)
	uc := newUseCase(s)
	ctx := context.Background()

	require.NoError(t, uc.Deactivate(ctx, "cat-rp"))
	require.NoError(t, uc.Deactivate(ctx, "cat-rp"))
	assert.False(t, s.categories["cat-rp"].Active)
	assert.Equal(t, relacionesPublicas, s.invoices["f1"].Category, "los registros conservan el nombre")

	active := true
	list, err := uc.List(ctx, &active)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Digital", list[0].Name)

	require.NoError(t, uc.Restore(ctx, "cat-rp"))
	assert.True(t, s.categories["cat-rp"].Active)

	assert.ErrorIs(t, uc.Deactivate(ctx, "nope"), domain.ErrNotFound)
	assert.ErrorIs(t, uc.Restore(ctx, "nope"), domain.ErrNotFound)
}

func TestListYGet(t *testing.T) {
	s := newMemStore()
	seedScenario(s)
	uc := newUseCase(s)
	ctx := context.Background()

	list, err := uc.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Digital", list[0].Name, "orden 2 antes que orden 5")

	names, err := uc.ActiveNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Digital", relacionesPublicas}, names)

	got, err := uc.Get(ctx, "cat-rp")
	require.NoError(t, err)
	assert.Equal(t, relacionesPublicas, got.Name)

	_, err = uc.Get(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUsage(t *testing.T) {
	s := newMemStore()
	seedScenario(s)
	s.invoices["f9"] = &entity.Invoice{ID: "f9", Category: "Patrocinios"}
	s.projections["p9"] = &entity.Projection{ID: "p9", Category: "Digital", LineItemsJSON: `[{"categoria":"Digital"},{"categoria":"Digital"}]`}
	s.projections["p8"] = &entity.Projection{ID: "p8", LineItemsJSON: `nope`}
	uc := newUseCase(s)

	got, err := uc.Usage(context.Background())
	require.NoError(t, err)
	want := &dto.CategoryUsageResponse{
		Items: []dto.CategoryUsage{
			{Name: "Digital", Known: true, Active: true, Invoices: 1, Projections: 1, LineItems: 2},
			{Name: relacionesPublicas, Known: true, Active: true, Invoices: 1, Projections: 1, LineItems: 1, MonthlyBudgets: 1},
			{Name: "Patrocinios", Invoices: 1},
		},
		SkippedBlobs: []string{"p8"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("uso (-want +got):\n%s", diff)
	}
}

func TestSeed(t *testing.T) {
	s := newMemStore()
	uc := newUseCase(s)
	ctx := context.Background()

	n, err := uc.Seed(ctx, categorias.DefaultCategories)
	require.NoError(t, err)
	assert.Equal(t, len(categorias.DefaultCategories), n)

	n, err = uc.Seed(ctx, categorias.DefaultCategories)
	require.NoError(t, err)
	assert.Zero(t, n, "la siembra es idempotente")
}
