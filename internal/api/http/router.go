package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	tickets := app.Group("/api/tickets")
	tickets.Get("/getAll", cfg.Tickets.GetAll)
	tickets.Get("/get-ticket", cfg.AuthMiddleware.Handle, cfg.Tickets.GetByUser)
	tickets.Post("/create", cfg.Tickets.Create)
	tickets.Put("/update/:id", cfg.AuthMiddleware.Handle, cfg.Tickets.Update)
	tickets.Delete("/delete/:id", cfg.AuthMiddleware.Handle, cfg.Tickets.Delete)
	tickets.Get("/history/:id", cfg.AuthMiddleware.Handle, cfg.Tickets.History)

	users := app.Group("/api/users")
	users.Get("/getAll", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Users.GetAll)
	users.Post("/create", cfg.Users.Create)
	users.Post("/login", cfg.Users.Login)
	users.Post("/logout", cfg.Users.Logout)
}
