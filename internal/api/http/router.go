package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/http/handlers"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Complaints     *handlers.ComplaintsHandler
	ASM            *handlers.ASMHandler
	Notifications  *handlers.NotificationsHandler
	Exports        *handlers.ExportsHandler
	WS             *handlers.WSHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Only the ASM group sits behind the auth
// guard; the admin surface and the notification inbox are open, matching
// the observed API.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	api := app.Group("/api")

	complaints := api.Group("/complaints")
	complaints.Get("/stats", cfg.Complaints.Stats)
	complaints.Get("/trends/:days", cfg.Complaints.Trends)
	complaints.Get("/options", cfg.Complaints.Options)
	complaints.Post("/export-analytics", cfg.Exports.ExportAnalytics)
	complaints.Post("/export-all", cfg.Exports.ExportAll)
	complaints.Get("/", cfg.Complaints.List)
	complaints.Post("/", cfg.Complaints.Create)
	complaints.Get("/:id", cfg.Complaints.Get)
	complaints.Patch("/:id", cfg.Complaints.Update)
	complaints.Delete("/:id", cfg.Complaints.Delete)
	complaints.Get("/:id/history", cfg.Complaints.History)

	asm := api.Group("/asm", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin, domain.RoleCustomer))
	asm.Get("/my-complaints", cfg.ASM.MyComplaints)
	asm.Get("/my-stats", cfg.ASM.MyStats)
	asm.Post("/complaints", cfg.ASM.CreateComplaint)
	asm.Patch("/profile", cfg.Users.UpdateProfile)

	notifications := api.Group("/notifications")
	notifications.Get("/", cfg.Notifications.List)
	notifications.Get("/unread", cfg.Notifications.ListUnread)
	notifications.Post("/mark-all-read", cfg.Notifications.MarkAllRead)
	notifications.Post("/:id/read", cfg.Notifications.MarkRead)

	app.Use("/ws/notifications", cfg.WS.Upgrade)
	app.Get("/ws/notifications", cfg.WS.Serve())
}
