package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sgpme-api/internal/application/categorias"
	"github.com/jhoicas/sgpme-api/internal/application/dto"
	"github.com/jhoicas/sgpme-api/internal/domain"
	"github.com/jhoicas/sgpme-api/internal/domain/entity"
	"github.com/jhoicas/sgpme-api/internal/domain/repository"
	apphttp "github.com/jhoicas/sgpme-api/internal/interfaces/http"
)

type stubCategories struct {
	calls     []string
	gotActive *bool
	gotInput  dto.CategoryRequest
	err       error
}

func (s *stubCategories) record(name string) error {
	s.calls = append(s.calls, name)
	return s.err
}

func (s *stubCategories) List(_ context.Context, active *bool) ([]dto.CategoryResponse, error) {
	s.gotActive = active
	if err := s.record("List"); err != nil {
		return nil, err
	}
	return []dto.CategoryResponse{{ID: "c1", Name: "Digital", Subcategories: []string{"WEB"}, Active: true, Order: 1}}, nil
}

func (s *stubCategories) Get(_ context.Context, id string) (*dto.CategoryResponse, error) {
	if err := s.record("Get"); err != nil {
		return nil, err
	}
	return &dto.CategoryResponse{ID: id, Name: "Digital", Subcategories: []string{}}, nil
}

func (s *stubCategories) Create(_ context.Context, _ string, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	s.gotInput = in
	if err := s.record("Create"); err != nil {
		return nil, err
	}
	return &dto.CategoryResponse{ID: "nueva", Name: in.Name}, nil
}

func (s *stubCategories) Update(_ context.Context, id string, in dto.CategoryRequest) (*dto.CategoryUpdateResponse, error) {
	s.gotInput = in
	if err := s.record("Update"); err != nil {
		return nil, err
	}
	return &dto.CategoryUpdateResponse{
		Message:   "Categoría actualizada exitosamente",
		Category:  dto.CategoryResponse{ID: id, Name: in.Name, Subcategories: in.Subcategories, Active: true},
		Migration: dto.MigrationReport{Invoices: 2, Projections: 1, LineItems: 3, MonthlyBudgets: 1},
	}, nil
}

func (s *stubCategories) Deactivate(context.Context, string) error { return s.record("Deactivate") }
func (s *stubCategories) Restore(context.Context, string) error    { return s.record("Restore") }

func (s *stubCategories) Usage(context.Context) (*dto.CategoryUsageResponse, error) {
	if err := s.record("Usage"); err != nil {
		return nil, err
	}
	return &dto.CategoryUsageResponse{Items: []dto.CategoryUsage{{Name: "Digital", Known: true, Active: true, Invoices: 4}}}, nil
}

func (s *stubCategories) ActiveNames(context.Context) ([]string, error) {
	return []string{"Digital", "Eventos"}, s.record("ActiveNames")
}

type stubAuth struct{}

func (stubAuth) Login(_ context.Context, in dto.LoginRequest) (*dto.TokenResponse, error) {
	if in.Password != "secreta" {
		return nil, domain.ErrUnauthorized
	}
	return &dto.TokenResponse{AccessToken: "tok-" + in.Username, TokenType: "bearer"}, nil
}

func (stubAuth) Me(_ context.Context, userID string) (*dto.UserResponse, error) {
	return &dto.UserResponse{ID: userID, Username: testUsername}, nil
}

func (stubAuth) ChangePassword(context.Context, string, dto.ChangePasswordRequest) (*dto.ChangePasswordResponse, error) {
	return nil, domain.ErrWrongPassword
}

func (stubAuth) ForgotPassword(context.Context, dto.ForgotPasswordRequest) (*dto.SuccessResponse, error) {
	return &dto.SuccessResponse{Message: "ok", Success: true}, nil
}

func (stubAuth) ResetPassword(context.Context, dto.ResetPasswordRequest) (*dto.SuccessResponse, error) {
	return nil, domain.ErrExpiredCode
}

type stubRecords struct {
	invoiceFilter repository.InvoiceFilter
	budgetFilter  repository.MonthlyBudgetFilter
}

type invoiceStub struct{ *stubRecords }

func (s invoiceStub) List(_ context.Context, f repository.InvoiceFilter) ([]dto.InvoiceResponse, error) {
	s.invoiceFilter = f
	return []dto.InvoiceResponse{}, nil
}

type projectionStub struct{}

func (projectionStub) List(context.Context, repository.ProjectionFilter) ([]dto.ProjectionResponse, error) {
	return []dto.ProjectionResponse{}, nil
}

type budgetStub struct{ *stubRecords }

func (s budgetStub) List(_ context.Context, f repository.MonthlyBudgetFilter) ([]dto.MonthlyBudgetResponse, error) {
	s.budgetFilter = f
	return []dto.MonthlyBudgetResponse{}, nil
}

type stubReport struct{ got *dto.CategoryUsageResponse }

func (s *stubReport) GenerateUsageReport(_ context.Context, report *dto.CategoryUsageResponse, _ time.Time) ([]byte, error) {
	s.got = report
	return []byte("%PDF-1.3 stub"), nil
}

func newTestRouter(cats *stubCategories, recs *stubRecords) *fiber.App {
	return newTestRouterWithReport(cats, recs, nil)
}

func newTestRouterWithReport(cats *stubCategories, recs *stubRecords, report *stubReport) *fiber.App {
	deps := apphttp.RouterDeps{
		AuthUC:       stubAuth{},
		CategoryUC:   cats,
		InvoiceUC:    invoiceStub{recs},
		ProjectionUC: projectionStub{},
		BudgetUC:     budgetStub{recs},
		JWTSecret:    testJWTSecret,
	}
	if report != nil {
		deps.UsageReport = report
	}
	app := fiber.New()
	apphttp.Router(app, deps)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, role, body string) (int, string) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func TestCategorias_CrearDevuelve201ConID(t *testing.T) {
	cats := &stubCategories{}
	app := newTestRouter(cats, &stubRecords{})

	status, body := call(t, app, http.MethodPost, "/api/categorias", entity.RoleAdministrador,
		`{"nombre":"Eventos","subcategorias":["Lanzamientos"],"orden":2}`)
	assert.Equal(t, http.StatusCreated, status)
	assert.JSONEq(t, `{"message":"Categoría creada exitosamente","id":"nueva"}`, body)
	assert.Equal(t, "Eventos", cats.gotInput.Name)
	assert.True(t, cats.gotInput.IsActive(), "activo omitido equivale a true")
}

func TestCategorias_DuplicadoDevuelve400(t *testing.T) {
	cats := &stubCategories{err: fmt.Errorf("crear: %w", domain.ErrDuplicate)}
	app := newTestRouter(cats, &stubRecords{})

	status, body := call(t, app, http.MethodPost, "/api/categorias", entity.RoleAdministrador, `{"nombre":"Digital"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body, `Ya existe una categoría \"Digital\"`)

	status, body = call(t, app, http.MethodPut, "/api/categorias/c1", entity.RoleAdministrador, `{"nombre":"Digital"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body, `Ya existe otra categoría \"Digital\"`)
}

func TestCategorias_DuplicadoCitaNombreNormalizado(t *testing.T) {
	cats := &stubCategories{err: &categorias.DuplicateNameError{Name: "Digital"}}
	app := newTestRouter(cats, &stubRecords{})

	status, body := call(t, app, http.MethodPost, "/api/categorias", entity.RoleAdministrador, `{"nombre":"  Digital\t"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body, `Ya existe una categoría \"Digital\"`)

	status, body = call(t, app, http.MethodPut, "/api/categorias/c1", entity.RoleAdministrador, `{"nombre":"  Digital\t"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body, `Ya existe otra categoría \"Digital\"`)

	// Sin el nombre en el error se recorta el del cuerpo.
	cats.err = domain.ErrDuplicate
	_, body = call(t, app, http.MethodPost, "/api/categorias", entity.RoleAdministrador, `{"nombre":" Digital "}`)
	assert.Contains(t, body, `Ya existe una categoría \"Digital\"`)
}

func TestCategorias_NoEncontradaDevuelve404(t *testing.T) {
	cats := &stubCategories{err: domain.ErrNotFound}
	app := newTestRouter(cats, &stubRecords{})

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/api/categorias/x", ""},
		{http.MethodPut, "/api/categorias/x", `{"nombre":"Y"}`},
		{http.MethodDelete, "/api/categorias/x", ""},
		{http.MethodPost, "/api/categorias/x/restore", ""},
	} {
		status, body := call(t, app, tc.method, tc.path, entity.RoleAdministrador, tc.body)
		assert.Equal(t, http.StatusNotFound, status, tc.method+" "+tc.path)
		assert.Contains(t, body, "Categoría no encontrada")
	}
}

func TestCategorias_MutacionesRequierenAdministrador(t *testing.T) {
	cats := &stubCategories{}
	app := newTestRouter(cats, &stubRecords{})

	for _, role := range []string{entity.RoleCoordinador, entity.RoleAuditor} {
		for _, tc := range []struct{ method, path, body string }{
			{http.MethodPost, "/api/categorias", `{"nombre":"X"}`},
			{http.MethodPut, "/api/categorias/c1", `{"nombre":"X"}`},
			{http.MethodDelete, "/api/categorias/c1", ""},
			{http.MethodPost, "/api/categorias/c1/restore", ""},
			{http.MethodGet, "/api/categorias/uso", ""},
		} {
			status, _ := call(t, app, tc.method, tc.path, role, tc.body)
			assert.Equal(t, http.StatusForbidden, status, role+" "+tc.method+" "+tc.path)
		}
	}
	assert.Empty(t, cats.calls, "el 403 se responde antes de tocar datos")

	status, _ := call(t, app, http.MethodGet, "/api/categorias", entity.RoleAuditor, "")
	assert.Equal(t, http.StatusOK, status, "la lectura está abierta a todos los roles")
}

func TestCategorias_SinTokenDevuelve401(t *testing.T) {
	app := newTestRouter(&stubCategories{}, &stubRecords{})
	status, _ := call(t, app, http.MethodGet, "/api/categorias", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestCategorias_FiltroActivo(t *testing.T) {
	cats := &stubCategories{}
	app := newTestRouter(cats, &stubRecords{})

	status, _ := call(t, app, http.MethodGet, "/api/categorias?activo=false", entity.RoleAuditor, "")
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, cats.gotActive)
	assert.False(t, *cats.gotActive)

	status, _ = call(t, app, http.MethodGet, "/api/categorias", entity.RoleAuditor, "")
	require.Equal(t, http.StatusOK, status)
	assert.Nil(t, cats.gotActive)

	status, body := call(t, app, http.MethodGet, "/api/categorias?activo=quizas", entity.RoleAuditor, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body, "VALIDATION")
}

func TestCategorias_ActualizarDevuelveMigracion(t *testing.T) {
	cats := &stubCategories{}
	app := newTestRouter(cats, &stubRecords{})

	status, body := call(t, app, http.MethodPut, "/api/categorias/c1", entity.RoleAdministrador,
		`{"nombre":"Eventos","subcategorias":["Eventos en Agencia"],"activo":true,"orden":3}`)
	require.Equal(t, http.StatusOK, status)

	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Contains(t, out, "message")
	assert.Contains(t, out, "categoria")
	assert.JSONEq(t, `{
		"facturas_actualizadas": 2,
		"proyecciones_actualizadas": 1,
		"partidas_actualizadas": 3,
		"presupuestos_mensuales_actualizados": 1,
		"presupuestos_anuales_actualizados": 0
	}`, string(out["migracion"]))
	assert.Equal(t, 3, cats.gotInput.Order)
}

func TestCategorias_UsoNoSeConfundeConID(t *testing.T) {
	cats := &stubCategories{}
	app := newTestRouter(cats, &stubRecords{})

	status, body := call(t, app, http.MethodGet, "/api/categorias/uso", entity.RoleAdministrador, "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"facturas":4`)
	assert.Equal(t, []string{"Usage"}, cats.calls)
}

func TestCategorias_ErrorDesconocidoDevuelve500Generico(t *testing.T) {
	cats := &stubCategories{err: fmt.Errorf("conexión perdida con 10.0.0.3")}
	app := newTestRouter(cats, &stubRecords{})

	status, body := call(t, app, http.MethodGet, "/api/categorias", entity.RoleAuditor, "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.NotContains(t, body, "10.0.0.3")
}

func TestPresupuesto_Categorias(t *testing.T) {
	app := newTestRouter(&stubCategories{}, &stubRecords{})
	status, body := call(t, app, http.MethodGet, "/api/presupuesto/categorias", entity.RoleAuditor, "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `["Digital","Eventos"]`, body)
}

func TestRegistros_Filtros(t *testing.T) {
	recs := &stubRecords{}
	app := newTestRouter(&stubCategories{}, recs)

	status, _ := call(t, app, http.MethodGet, "/api/facturas?categoria=Eventos&subcategoria=Lanzamientos&marca=Acme", entity.RoleAuditor, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, repository.InvoiceFilter{Category: "Eventos", Subcategory: "Lanzamientos", Brand: "Acme"}, recs.invoiceFilter)

	status, _ = call(t, app, http.MethodGet, "/api/presupuesto?mes=3&anio=2024&marca_id=m1", entity.RoleAuditor, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, repository.MonthlyBudgetFilter{Month: 3, Year: 2024, BrandID: "m1"}, recs.budgetFilter)

	status, _ = call(t, app, http.MethodGet, "/api/proyecciones?anio=dos-mil", entity.RoleAuditor, "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAuth_TokenFormulario(t *testing.T) {
	app := newTestRouter(&stubCategories{}, &stubRecords{})

	form := url.Values{"username": {"mlopez"}, "password": {"secreta"}}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.TokenResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, dto.TokenResponse{AccessToken: "tok-mlopez", TokenType: "bearer"}, out)

	status, _ := call(t, app, http.MethodPost, "/api/auth/token", "", `{"username":"mlopez","password":"otra"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAuth_ErroresDeContraseña(t *testing.T) {
	app := newTestRouter(&stubCategories{}, &stubRecords{})

	status, body := call(t, app, http.MethodPost, "/api/auth/change-password", entity.RoleAuditor,
		`{"current_password":"x","new_password":"nueva123"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body, "WRONG_PASSWORD")

	status, body = call(t, app, http.MethodPost, "/api/auth/reset-password", "",
		`{"email":"a@b.co","code":"123456","new_password":"nueva123"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body, "EXPIRED_CODE")

	status, _ = call(t, app, http.MethodGet, "/api/auth/user", entity.RoleAuditor, "")
	assert.Equal(t, http.StatusOK, status)
}

func TestCategorias_UsoPDF(t *testing.T) {
	report := &stubReport{}
	app := newTestRouterWithReport(&stubCategories{}, &stubRecords{}, report)

	req := httptest.NewRequest(http.MethodGet, "/api/categorias/uso/pdf", nil)
	req.Header.Set("Authorization", tokenForRole(t, entity.RoleAdministrador))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "uso-categorias-")
	require.NotNil(t, report.got)
	assert.Equal(t, "Digital", report.got.Items[0].Name)

	status, _ := call(t, app, http.MethodGet, "/api/categorias/uso/pdf", entity.RoleCoordinador, "")
	assert.Equal(t, http.StatusForbidden, status)
}
