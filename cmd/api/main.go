package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	_ "github.com/jhoicas/sgpme-api/docs"
	"github.com/jhoicas/sgpme-api/internal/application/auth"
	"github.com/jhoicas/sgpme-api/internal/application/categorias"
	"github.com/jhoicas/sgpme-api/internal/application/usecase"
	"github.com/jhoicas/sgpme-api/internal/infrastructure/mail"
	"github.com/jhoicas/sgpme-api/internal/infrastructure/pdf"
	"github.com/jhoicas/sgpme-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/sgpme-api/internal/interfaces/http"
	"github.com/jhoicas/sgpme-api/pkg/config"
	"github.com/jhoicas/sgpme-api/pkg/logger"
)

// @title                       SGPME API
// @version                     1.0
// @description                 Administración de presupuesto y gasto de marketing.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	resetRepo := postgres.NewPasswordResetRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	projectionRepo := postgres.NewProjectionRepository(pool)
	budgetRepo := postgres.NewMonthlyBudgetRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	categoryUC := categorias.NewCategoryUseCase(txRunner, categoryRepo, invoiceRepo, projectionRepo, budgetRepo, log)
	authUC := auth.NewAuthUseCase(userRepo, resetRepo, mail.New(cfg.SMTP, log), auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, time.Duration(cfg.Auth.ResetCodeTTLMinutes)*time.Minute, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "SGPME API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		CategoryUC:   categoryUC,
		InvoiceUC:    usecase.NewInvoiceUseCase(invoiceRepo),
		ProjectionUC: usecase.NewProjectionUseCase(projectionRepo, log),
		BudgetUC:     usecase.NewMonthlyBudgetUseCase(budgetRepo),
		UsageReport:  pdf.NewUsageReportGenerator(cfg.App.Name),
		JWTSecret:    cfg.JWT.Secret,
		Log:          log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
