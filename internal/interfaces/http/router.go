package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sgpme-api/internal/domain/entity"
	"github.com/jhoicas/sgpme-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       authService
	CategoryUC   categoryService
	InvoiceUC    invoiceLister
	ProjectionUC projectionLister
	BudgetUC     budgetLister
	UsageReport  usageReportRenderer
	JWTSecret    string
	Log          *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, log)
	authGroup := api.Group("/auth")
	authGroup.Post("/token", authHandler.Token)
	authGroup.Post("/forgot-password", authHandler.ForgotPassword)
	authGroup.Post("/reset-password", authHandler.ResetPassword)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/user", authHandler.User)
	protected.Post("/auth/change-password", authHandler.ChangePassword)

	// Catálogo de categorías: lectura para todos los roles, mutaciones sólo administrador.
	categoryHandler := NewCategoryHandler(deps.CategoryUC, deps.UsageReport, log)
	categories := protected.Group("/categorias")
	categories.Get("/", categoryHandler.List)
	categories.Get("/uso", RequireCatalogAdmin(), categoryHandler.Usage)
	if deps.UsageReport != nil {
		categories.Get("/uso/pdf", RequireCatalogAdmin(), categoryHandler.UsagePDF)
	}
	categories.Get("/:id", categoryHandler.Get)
	categories.Post("/", RequireCatalogAdmin(), categoryHandler.Create)
	categories.Put("/:id", RequireCatalogAdmin(), categoryHandler.Update)
	categories.Delete("/:id", RequireCatalogAdmin(), categoryHandler.Delete)
	categories.Post("/:id/restore", RequireCatalogAdmin(), categoryHandler.Restore)

	recordsHandler := NewRecordsHandler(deps.InvoiceUC, deps.ProjectionUC, deps.BudgetUC, log)
	read := RequirePermission(entity.ActionRead)
	protected.Get("/facturas", read, recordsHandler.Invoices)
	protected.Get("/proyecciones", read, recordsHandler.Projections)
	protected.Get("/presupuesto", read, recordsHandler.MonthlyBudgets)
	protected.Get("/presupuesto/categorias", read, categoryHandler.ActiveNames)
}
