package main

import (
	"log"
	"strings"
	"time"

	"propertyhub-backend/internal/audit"
	"propertyhub-backend/internal/auth"
	"propertyhub-backend/internal/config"
	"propertyhub-backend/internal/dashboard"
	"propertyhub-backend/internal/database"
	"propertyhub-backend/internal/importer"
	"propertyhub-backend/internal/insurance"
	"propertyhub-backend/internal/invoice"
	"propertyhub-backend/internal/lease"
	"propertyhub-backend/internal/messaging"
	"propertyhub-backend/internal/models"
	"propertyhub-backend/internal/observ"
	"propertyhub-backend/internal/owner"
	"propertyhub-backend/internal/property"
	"propertyhub-backend/internal/report"
	"propertyhub-backend/internal/tenant"
	"propertyhub-backend/internal/ticket"
	"propertyhub-backend/internal/unit"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	logger, err := observ.NewLogger(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("[FATAL] logger init failed: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"message": e.Message,
				})
			}
			logger.Error("unexpected error", zap.Error(err), zap.String("path", c.Path()))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Unexpected server error",
			})
		},
	})

	app.Use(requestid.New())

	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		rid, _ := c.Locals("requestid").(string)
		logger.Info("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", rid))

		return err
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	// Properties
	adminRoutes.Post("/properties", property.CreatePropertyHandler())
	adminRoutes.Get("/properties", property.ListPropertiesHandler())
	adminRoutes.Get("/properties/:id", property.GetPropertyHandler())
	adminRoutes.Put("/properties/:id", property.UpdatePropertyHandler())
	adminRoutes.Delete("/properties/:id", property.DeletePropertyHandler())

	// Units & bedrooms
	adminRoutes.Post("/units", unit.CreateUnitHandler())
	adminRoutes.Get("/units", unit.ListUnitsHandler())
	adminRoutes.Get("/units/:id", unit.GetUnitDetailsHandler())
	adminRoutes.Put("/units/:id", unit.UpdateUnitHandler())
	adminRoutes.Delete("/units/:id", unit.DeleteUnitHandler())
	adminRoutes.Post("/units/import", importer.ImportUnitsHandler())

	// Tenants
	adminRoutes.Post("/tenants", tenant.CreateTenantHandler())
	adminRoutes.Get("/tenants", tenant.ListTenantsHandler())
	adminRoutes.Get("/tenants/:id", tenant.GetTenantHandler())
	adminRoutes.Put("/tenants/:id", tenant.UpdateTenantHandler())
	adminRoutes.Delete("/tenants/:id", tenant.DeleteTenantHandler())

	// Owners
	adminRoutes.Post("/owners", owner.CreateOwnerHandler())
	adminRoutes.Get("/owners", owner.ListOwnersHandler())
	adminRoutes.Get("/owners/:id", owner.GetOwnerHandler())
	adminRoutes.Put("/owners/:id", owner.UpdateOwnerHandler())
	adminRoutes.Delete("/owners/:id", owner.DeleteOwnerHandler())

	// Leases
	adminRoutes.Post("/leases", lease.CreateLeaseHandler())
	adminRoutes.Get("/leases", lease.ListLeasesHandler())
	adminRoutes.Get("/leases/units-with-tenants", lease.UnitsWithTenantsHandler())
	adminRoutes.Get("/leases/active/:unitId", lease.GetActiveLeaseHandler())
	adminRoutes.Get("/leases/:id/download", lease.DownloadLeaseHandler())
	adminRoutes.Put("/leases/:id/terminate", lease.TerminateLeaseHandler())

	// Invoices
	adminRoutes.Post("/invoices", invoice.CreateInvoiceHandler())
	adminRoutes.Get("/invoices", invoice.ListInvoicesHandler())
	adminRoutes.Put("/invoices/:id/pay", invoice.MarkInvoicePaidHandler())
	adminRoutes.Get("/outstanding-dues", invoice.OutstandingDuesHandler())

	// Insurance alerts
	adminRoutes.Get("/insurance/alerts", insurance.InsuranceAlertsHandler())

	// Tickets
	adminRoutes.Get("/tickets", ticket.ListTicketsHandler())
	adminRoutes.Post("/tickets", ticket.CreateTicketHandler())
	adminRoutes.Put("/tickets/:id", ticket.UpdateTicketHandler())

	// Dashboard & analytics
	adminRoutes.Get("/dashboard/stats", dashboard.StatsHandler())
	adminRoutes.Get("/analytics/vacancy", dashboard.VacancyHandler())
	adminRoutes.Get("/analytics/revenue", dashboard.RevenueHandler())

	// Audit trail
	adminRoutes.Get("/audit-logs", audit.ListAuditLogsHandler())
	adminRoutes.Post("/audit-logs/:id/undo", audit.UndoAuditLogHandler())

	// Tenant portal
	tenantRoutes := protected.Group("/tenant")
	tenantRoutes.Use(auth.RequireRole(models.RoleTenant))
	tenantRoutes.Get("/insurance", insurance.GetOwnPolicyHandler())
	tenantRoutes.Post("/insurance", insurance.SubmitOwnPolicyHandler())

	// Owner portal
	ownerRoutes := protected.Group("/owner")
	ownerRoutes.Use(auth.RequireRole(models.RoleOwner, models.RoleAdmin))
	ownerRoutes.Get("/reports/:propertyId/statement.xlsx", report.OwnerStatementHandler())

	// Messaging (any authenticated role)
	protected.Get("/messages/conversations", messaging.ListConversationsHandler())
	protected.Get("/messages/thread/:userId", messaging.GetThreadHandler())
	protected.Post("/messages", messaging.SendMessageHandler())

	logger.Info("server starting", zap.String("port", cfg.HTTPPort), zap.String("env", cfg.AppEnv))
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
