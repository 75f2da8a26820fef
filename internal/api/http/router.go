package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/access-request-service/internal/api/http/handlers"
	"github.com/spec-kit/access-request-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Catalog        *handlers.CatalogHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	authProtected.Get("/me", cfg.Users.Me)
	authProtected.Post("/change-password", cfg.Users.ChangePassword)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	tickets.Post("/", cfg.Tickets.SubmitTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/assignees", cfg.Tickets.ListAssignees)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Put("/:id/confirm", cfg.Tickets.ConfirmSelection)
	tickets.Post("/:id/approve", cfg.Tickets.Approve)
	tickets.Post("/:id/reject", cfg.Tickets.Reject)
	tickets.Post("/:id/close", cfg.Tickets.CloseTicket)
	tickets.Get("/:id/grant", cfg.Tickets.GetGrant)

	catalog := app.Group("/catalog", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	catalog.Get("/assets", cfg.Catalog.ListAssets)
	catalog.Get("/accounts", cfg.Catalog.ListAccounts)
	catalog.Get("/organizations", cfg.Catalog.ListOrganizations)
}
