package handler

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"teachassist/internal/delivery/http/dto"
	"teachassist/internal/delivery/http/middleware"
	"teachassist/internal/pkg/response"
	dashuc "teachassist/internal/usecase/dashboard"
)

type DashboardHandler struct {
	uc *dashuc.Service
}

func NewDashboardHandler(uc *dashuc.Service) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

func (h *DashboardHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.Summary)
}

func (h *DashboardHandler) Summary(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	summary, err := h.uc.Summary(c.Context(), userID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	data := map[string]any{
		"upcoming_events": dto.NewEventListResponse(summary.UpcomingEvents, time.Now()),
		"overdue_count":   summary.OverdueCount,
		"event_count":     summary.EventCount,
		"resource_count":  summary.ResourceCount,
		"quiz_count":      summary.QuizCount,
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}
