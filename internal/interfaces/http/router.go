package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Consola-api/internal/application/auth"
	"github.com/jhoicas/Consola-api/internal/application/entitlement"
	"github.com/jhoicas/Consola-api/internal/application/provisioning"
	"github.com/jhoicas/Consola-api/internal/application/reporting"
	"github.com/jhoicas/Consola-api/internal/domain/entity"
	"github.com/jhoicas/Consola-api/internal/infrastructure/report"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	EntitlementUC  *entitlement.UseCase
	ProvisioningUC *provisioning.UseCase
	UsageUC        *reporting.UsageUseCase
	AuthUC         *auth.UseCase
	PDFExporter    *report.PDFExporter
	ExcelExporter  *report.ExcelExporter
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	tenantHandler := NewTenantHandler(deps.EntitlementUC, deps.ProvisioningUC)
	userHandler := NewUserHandler(deps.ProvisioningUC)
	reportHandler := NewReportHandler(deps.UsageUC, deps.PDFExporter, deps.ExcelExporter)

	// Lectura: cualquier operador autenticado
	tenants := protected.Group("/tenants")
	tenants.Get("/", tenantHandler.List)
	tenants.Get("/:id", tenantHandler.GetByID)
	tenants.Get("/:id/users", userHandler.List)

	// Mutaciones de entitlement y provisioning: solo org_admin
	admin := RequireRole(entity.RoleOrgAdmin)
	tenants.Post("/", admin, tenantHandler.Create)
	tenants.Delete("/:id", admin, tenantHandler.Delete)
	tenants.Post("/:id/trial/extend", admin, tenantHandler.ExtendTrial)
	tenants.Post("/:id/trial/revoke", admin, tenantHandler.RevokeTrial)
	tenants.Post("/:id/subscription/renew", admin, tenantHandler.RenewSubscription)
	tenants.Put("/:id/credits", admin, tenantHandler.SetCredits)
	tenants.Put("/:id/subscribed-users", admin, tenantHandler.SetSubscribedUsers)
	tenants.Post("/:id/users", admin, userHandler.Add)
	tenants.Delete("/:id/users/:userId", admin, userHandler.Delete)

	// Reportes: lectura para cualquier operador autenticado
	reports := protected.Group("/reports")
	reports.Get("/usage", reportHandler.Usage)
	reports.Get("/usage/export", reportHandler.Export)
}
