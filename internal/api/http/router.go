package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/awaaz-labs/civic-portal/internal/api/http/handlers"
	"github.com/awaaz-labs/civic-portal/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Auth       *handlers.AuthHandler
	Tickets    *handlers.TicketsHandler
	Admin      *handlers.AdminHandler
	Middleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/admin-login", cfg.Auth.AdminLogin)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/me", cfg.Middleware.Handle, cfg.Auth.Me)
	authGroup.Put("/update-profile", cfg.Middleware.Handle, cfg.Auth.UpdateProfile)
	authGroup.Put("/change-password", cfg.Middleware.Handle, cfg.Auth.ChangePassword)

	tickets := api.Group("/tickets")
	tickets.Post("", cfg.Middleware.Optional, cfg.Tickets.Create)
	tickets.Get("", cfg.Middleware.Optional, cfg.Tickets.List)
	tickets.Put("", cfg.Middleware.RequireAdmin, cfg.Tickets.Update)

	admin := api.Group("/admin", cfg.Middleware.RequireAdmin)
	admin.Get("/users", cfg.Admin.Users)
}
