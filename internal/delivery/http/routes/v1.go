package routes

import (
	"github.com/gofiber/fiber/v3"
)

// RegisterV1 mounts the versioned API. Auth routes are public; everything
// else requires a valid access token, and all but the profile and onboarding
// routes additionally require onboarding to be complete.
func RegisterV1(r fiber.Router, d Deps) {
	if r == nil {
		return
	}

	d.Auth.RegisterRoutes(r.Group("/auth"))

	authed := r.Group("", d.AuthMw.Middleware())

	users := authed.Group("/users")
	d.User.RegisterRoutes(users)

	// The notification socket authenticates with its own middleware variant;
	// the `?token=` fallback is accepted on this route only.
	if d.WS != nil {
		r.Get("/ws/notifications", d.WS.HandleNotificationsWS, d.AuthMw.WebSocketMiddleware())
	}

	gated := authed.Group("", d.OnboardingMw.Middleware())

	d.User.RegisterGatedRoutes(gated.Group("/users"))
	d.Event.RegisterRoutes(gated.Group("/events"))
	d.Resource.RegisterRoutes(gated.Group("/resources"))
	d.Quiz.RegisterRoutes(gated.Group("/quizzes"))
	d.Dashboard.RegisterRoutes(gated.Group("/dashboard"))
}
