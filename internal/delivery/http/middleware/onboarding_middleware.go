package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"teachassist/internal/domain/user"
)

// OnboardingMiddleware blocks the main application surface until the profile
// wizard has been completed. The routes that finish onboarding itself are
// mounted outside this gate.
type OnboardingMiddleware struct {
	users user.Repository
}

func NewOnboardingMiddleware(users user.Repository) *OnboardingMiddleware {
	return &OnboardingMiddleware{users: users}
}

func (m *OnboardingMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		userID, ok := c.Locals(CtxUserIDKey).(uuid.UUID)
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		u, err := m.users.GetUserByID(c.Context(), userID)
		if err != nil {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
		}
		if !u.OnboardingCompleted {
			return NewAppError(fiber.StatusForbidden, "Onboarding not completed", nil, nil)
		}

		return c.Next()
	}
}
