package http

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sgpme-api/internal/application/categorias"
	"github.com/jhoicas/sgpme-api/internal/application/dto"
	"github.com/jhoicas/sgpme-api/internal/domain"
	"github.com/jhoicas/sgpme-api/pkg/logger"
)

// categoryService es lo que el handler necesita del catálogo; lo implementa *categorias.CategoryUseCase.
type categoryService interface {
	List(ctx context.Context, active *bool) ([]dto.CategoryResponse, error)
	Get(ctx context.Context, id string) (*dto.CategoryResponse, error)
	Create(ctx context.Context, userID string, in dto.CategoryRequest) (*dto.CategoryResponse, error)
	Update(ctx context.Context, id string, in dto.CategoryRequest) (*dto.CategoryUpdateResponse, error)
	Deactivate(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	Usage(ctx context.Context) (*dto.CategoryUsageResponse, error)
	ActiveNames(ctx context.Context) ([]string, error)
}

// usageReportRenderer genera el PDF del reporte de uso; lo implementa *pdf.UsageReportGenerator.
type usageReportRenderer interface {
	GenerateUsageReport(ctx context.Context, report *dto.CategoryUsageResponse, generatedAt time.Time) ([]byte, error)
}

var _ categoryService = (*categorias.CategoryUseCase)(nil)

// CategoryHandler maneja el catálogo de categorías.
type CategoryHandler struct {
	svc     categoryService
	reports usageReportRenderer
	log     *logger.Logger
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(svc categoryService, reports usageReportRenderer, log *logger.Logger) *CategoryHandler {
	return &CategoryHandler{svc: svc, reports: reports, log: log}
}

// List godoc
// @Summary      Listar categorías
// @Tags         categorias
// @Produce      json
// @Param        activo  query  bool  false  "filtrar por estado"
// @Success      200  {array}   dto.CategoryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/categorias [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	var active *bool
	if raw := c.Query("activo"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return badRequest(c, "VALIDATION", "activo debe ser true o false")
		}
		active = &v
	}
	list, err := h.svc.List(c.UserContext(), active)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(list)
}

// Get godoc
// @Summary      Obtener categoría
// @Tags         categorias
// @Produce      json
// @Param        id   path  string  true  "ID de la categoría"
// @Success      200  {object}  dto.CategoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/categorias/{id} [get]
func (h *CategoryHandler) Get(c *fiber.Ctx) error {
	out, err := h.svc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.categoryError(c, err, "")
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear categoría
// @Tags         categorias
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CategoryRequest  true  "nombre, subcategorias, activo, orden"
// @Success      201  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/categorias [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.svc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return h.categoryError(c, err, fmt.Sprintf("Ya existe una categoría %q", duplicateName(err, in.Name)))
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Message: categorias.MsgCreated, ID: out.ID})
}

// Update godoc
// @Summary      Actualizar categoría
// @Description  Renombra la categoría y migra facturas, proyecciones (campo y partidas) y presupuestos mensuales en la misma transacción.
// @Tags         categorias
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID de la categoría"
// @Param        body  body  dto.CategoryRequest  true  "nombre, subcategorias, activo, orden"
// @Success      200  {object}  dto.CategoryUpdateResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/categorias/{id} [put]
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	var in dto.CategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.svc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return h.categoryError(c, err, fmt.Sprintf("Ya existe otra categoría %q", duplicateName(err, in.Name)))
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Desactivar categoría
// @Tags         categorias
// @Produce      json
// @Param        id   path  string  true  "ID de la categoría"
// @Success      200  {object}  dto.MessageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/categorias/{id} [delete]
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Deactivate(c.UserContext(), c.Params("id")); err != nil {
		return h.categoryError(c, err, "")
	}
	return c.JSON(dto.MessageResponse{Message: categorias.MsgDeactivated})
}

// Restore godoc
// @Summary      Restaurar categoría
// @Tags         categorias
// @Produce      json
// @Param        id   path  string  true  "ID de la categoría"
// @Success      200  {object}  dto.MessageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/categorias/{id}/restore [post]
func (h *CategoryHandler) Restore(c *fiber.Ctx) error {
	if err := h.svc.Restore(c.UserContext(), c.Params("id")); err != nil {
		return h.categoryError(c, err, "")
	}
	return c.JSON(dto.MessageResponse{Message: categorias.MsgRestored})
}

// Usage godoc
// @Summary      Uso de categorías
// @Description  Registros por nombre de categoría, incluidos nombres que ya no están en el catálogo.
// @Tags         categorias
// @Produce      json
// @Success      200  {object}  dto.CategoryUsageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/categorias/uso [get]
func (h *CategoryHandler) Usage(c *fiber.Ctx) error {
	out, err := h.svc.Usage(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// UsagePDF godoc
// @Summary      Uso de categorías en PDF
// @Tags         categorias
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/categorias/uso/pdf [get]
func (h *CategoryHandler) UsagePDF(c *fiber.Ctx) error {
	out, err := h.svc.Usage(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	now := time.Now()
	doc, err := h.reports.GenerateUsageReport(c.UserContext(), out, now)
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="uso-categorias-%s.pdf"`, now.Format("20060102")))
	return c.Send(doc)
}

// ActiveNames godoc
// @Summary      Categorías disponibles para presupuesto
// @Tags         presupuesto
// @Produce      json
// @Success      200  {array}  string
// @Security     BearerAuth
// @Router       /api/presupuesto/categorias [get]
func (h *CategoryHandler) ActiveNames(c *fiber.Ctx) error {
	names, err := h.svc.ActiveNames(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(names)
}

func (h *CategoryHandler) categoryError(c *fiber.Ctx, err error, duplicateMsg string) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "Categoría no encontrada"})
	case errors.Is(err, domain.ErrDuplicate) && duplicateMsg != "":
		return badRequest(c, "DUPLICATE", duplicateMsg)
	}
	return respondError(c, h.log, err)
}

// duplicateName devuelve el nombre que chocó tal como lo comparó el caso de uso.
func duplicateName(err error, requested string) string {
	var dup *categorias.DuplicateNameError
	if errors.As(err, &dup) {
		return dup.Name
	}
	return strings.TrimSpace(requested)
}
