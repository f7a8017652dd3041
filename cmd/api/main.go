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

	"github.com/jhoicas/Consola-api/internal/application/auth"
	"github.com/jhoicas/Consola-api/internal/application/entitlement"
	"github.com/jhoicas/Consola-api/internal/application/notification"
	"github.com/jhoicas/Consola-api/internal/application/provisioning"
	"github.com/jhoicas/Consola-api/internal/application/reporting"
	"github.com/jhoicas/Consola-api/internal/infrastructure/email"
	"github.com/jhoicas/Consola-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Consola-api/internal/infrastructure/report"
	"github.com/jhoicas/Consola-api/internal/infrastructure/webhook"
	httpRouter "github.com/jhoicas/Consola-api/internal/interfaces/http"
	"github.com/jhoicas/Consola-api/pkg/config"
	"github.com/jhoicas/Consola-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
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

	tenantRepo := postgres.NewTenantRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	statsRepo := postgres.NewStatsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Canales de notificación: email transaccional + webhook de mensajería.
	emailSender := email.NewGomailSender(cfg.SMTP)
	webhookSender := webhook.NewRestySender(cfg.Webhook)
	dispatcher := notification.NewDispatcher(emailSender, webhookSender, cfg.Dispatch.ChannelTimeout, log)

	entitlementUC := entitlement.NewUseCase(tenantRepo)
	provisioningUC := provisioning.NewUseCase(tenantRepo, userRepo, txRunner, dispatcher, log)
	usageUC := reporting.NewUsageUseCase(tenantRepo, userRepo, statsRepo, cfg.Report.Workers, log)
	authUC := auth.NewUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30, // exportaciones PDF/XLSX
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Consola Ops API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		EntitlementUC:  entitlementUC,
		ProvisioningUC: provisioningUC,
		UsageUC:        usageUC,
		AuthUC:         authUC,
		PDFExporter:    report.NewPDFExporter(),
		ExcelExporter:  report.NewExcelExporter(),
		JWTSecret:      cfg.JWT.Secret,
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
