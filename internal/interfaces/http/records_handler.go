package http

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sgpme-api/internal/application/dto"
	"github.com/jhoicas/sgpme-api/internal/application/usecase"
	"github.com/jhoicas/sgpme-api/internal/domain/repository"
	"github.com/jhoicas/sgpme-api/pkg/logger"
)

type invoiceLister interface {
	List(ctx context.Context, f repository.InvoiceFilter) ([]dto.InvoiceResponse, error)
}

type projectionLister interface {
	List(ctx context.Context, f repository.ProjectionFilter) ([]dto.ProjectionResponse, error)
}

type budgetLister interface {
	List(ctx context.Context, f repository.MonthlyBudgetFilter) ([]dto.MonthlyBudgetResponse, error)
}

var (
	_ invoiceLister    = (*usecase.InvoiceUseCase)(nil)
	_ projectionLister = (*usecase.ProjectionUseCase)(nil)
	_ budgetLister     = (*usecase.MonthlyBudgetUseCase)(nil)
)

// RecordsHandler consultas de los registros que guardan copia del nombre de categoría.
type RecordsHandler struct {
	invoices    invoiceLister
	projections projectionLister
	budgets     budgetLister
	log         *logger.Logger
}

// NewRecordsHandler construye el handler.
func NewRecordsHandler(invoices invoiceLister, projections projectionLister, budgets budgetLister, log *logger.Logger) *RecordsHandler {
	return &RecordsHandler{invoices: invoices, projections: projections, budgets: budgets, log: log}
}

// Invoices godoc
// @Summary      Listar facturas
// @Tags         facturas
// @Produce      json
// @Param        categoria     query  string  false  "categoría"
// @Param        subcategoria  query  string  false  "subcategoría"
// @Param        marca         query  string  false  "marca"
// @Success      200  {array}  dto.InvoiceResponse
// @Security     BearerAuth
// @Router       /api/facturas [get]
func (h *RecordsHandler) Invoices(c *fiber.Ctx) error {
	list, err := h.invoices.List(c.UserContext(), repository.InvoiceFilter{
		Category:    c.Query("categoria"),
		Subcategory: c.Query("subcategoria"),
		Brand:       c.Query("marca"),
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(list)
}

// Projections godoc
// @Summary      Listar proyecciones
// @Tags         proyecciones
// @Produce      json
// @Param        categoria  query  string  false  "categoría"
// @Param        marca      query  string  false  "marca"
// @Param        anio       query  int     false  "año"
// @Success      200  {array}   dto.ProjectionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/proyecciones [get]
func (h *RecordsHandler) Projections(c *fiber.Ctx) error {
	year, ok := queryInt(c, "anio")
	if !ok {
		return badRequest(c, "VALIDATION", "anio debe ser numérico")
	}
	list, err := h.projections.List(c.UserContext(), repository.ProjectionFilter{
		Category: c.Query("categoria"),
		Brand:    c.Query("marca"),
		Year:     year,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(list)
}

// MonthlyBudgets godoc
// @Summary      Listar presupuesto mensual
// @Tags         presupuesto
// @Produce      json
// @Param        mes        query  int     false  "mes (1-12)"
// @Param        anio       query  int     false  "año"
// @Param        categoria  query  string  false  "categoría"
// @Param        marca_id   query  string  false  "marca"
// @Success      200  {array}   dto.MonthlyBudgetResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/presupuesto [get]
func (h *RecordsHandler) MonthlyBudgets(c *fiber.Ctx) error {
	month, ok := queryInt(c, "mes")
	if !ok {
		return badRequest(c, "VALIDATION", "mes debe ser numérico")
	}
	year, ok := queryInt(c, "anio")
	if !ok {
		return badRequest(c, "VALIDATION", "anio debe ser numérico")
	}
	list, err := h.budgets.List(c.UserContext(), repository.MonthlyBudgetFilter{
		Month:    month,
		Year:     year,
		Category: c.Query("categoria"),
		BrandID:  c.Query("marca_id"),
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(list)
}

// queryInt lee un entero opcional; ausente = 0.
func queryInt(c *fiber.Ctx, key string) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}
