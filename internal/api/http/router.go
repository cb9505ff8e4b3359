package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/backoffice-service/internal/api/http/handlers"
	"github.com/spec-kit/backoffice-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Threads        *handlers.ThreadsHandler
	Accounts       *handlers.AccountsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Everything below the auth middleware
// requires a resolved admin identity; the account endpoints additionally
// check the manage-users capability inside the service.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle)
	protected.Post("/auth/logout", cfg.Auth.Logout)

	protected.Get("/threads/:id", cfg.Threads.GetThread)
	protected.Patch("/threads/:id", cfg.Threads.UpdateThread)

	protected.Get("/users", cfg.Accounts.ListAccounts)
	protected.Post("/users", cfg.Accounts.CreateAccount)
	protected.Put("/users", cfg.Accounts.UpdateAccount)
	protected.Delete("/users", cfg.Accounts.DeleteAccount)
}
