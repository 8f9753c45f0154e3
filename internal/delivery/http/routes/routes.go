package routes

import (
	"github.com/gofiber/fiber/v3"

	"teachassist/internal/delivery/http/handler"
	"teachassist/internal/delivery/http/middleware"
	"teachassist/internal/ws"
)

// Deps carries the wired handlers and middleware into route registration.
type Deps struct {
	Health    *handler.HealthHandler
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Event     *handler.EventHandler
	Resource  *handler.ResourceHandler
	Quiz      *handler.QuizHandler
	Dashboard *handler.DashboardHandler
	WS        *ws.Handler

	AuthMw       *middleware.AuthMiddleware
	OnboardingMw *middleware.OnboardingMiddleware
}

func Register(app *fiber.App, d Deps) {
	if app == nil {
		return
	}

	d.Health.RegisterRoutes(app)

	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), d)
}
