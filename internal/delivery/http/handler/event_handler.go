package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"teachassist/internal/delivery/http/dto"
	"teachassist/internal/delivery/http/middleware"
	"teachassist/internal/domain/event"
	"teachassist/internal/pkg/response"
	eventuc "teachassist/internal/usecase/event"
)

type EventHandler struct {
	uc *eventuc.Service
}

type eventRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	Category    string     `json:"category"`
}

func NewEventHandler(uc *eventuc.Service) *EventHandler {
	return &EventHandler{uc: uc}
}

func (h *EventHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/:id", h.Get)
	r.Put("/:id", h.Update)
	r.Post("/:id/complete", h.Complete)
	r.Delete("/:id", h.Delete)
}

func (h *EventHandler) List(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	params := eventuc.ListParams{
		IncompleteOnly: c.Query("incomplete_only") == "true",
		Limit:          parseQueryInt(c, "limit", 0),
	}
	if from, err := parseTimeQuery(c.Query("from")); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid from parameter", nil, err)
	} else if from != nil {
		params.From = from
	}
	if to, err := parseTimeQuery(c.Query("to")); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid to parameter", nil, err)
	} else if to != nil {
		params.To = to
	}

	events, err := h.uc.List(c.Context(), userID, params)
	if err != nil {
		return mapEventUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewEventListResponse(events, time.Now()))
}

func (h *EventHandler) Get(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid event id", nil, err)
	}

	ev, err := h.uc.Get(c.Context(), userID, id)
	if err != nil {
		return mapEventUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewEventResponse(ev, time.Now()))
}

func (h *EventHandler) Create(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req eventRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	ev, err := h.uc.Create(c.Context(), userID, eventuc.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Category:    event.Category(req.Category),
	})
	if err != nil {
		return mapEventUsecaseError(err)
	}

	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.NewEventResponse(ev, time.Now()))
}

func (h *EventHandler) Update(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid event id", nil, err)
	}

	var req eventRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	ev, err := h.uc.Update(c.Context(), userID, id, eventuc.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Category:    event.Category(req.Category),
	})
	if err != nil {
		return mapEventUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewEventResponse(ev, time.Now()))
}

func (h *EventHandler) Complete(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid event id", nil, err)
	}

	if err := h.uc.Complete(c.Context(), userID, id); err != nil {
		return mapEventUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func (h *EventHandler) Delete(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid event id", nil, err)
	}

	if err := h.uc.Delete(c.Context(), userID, id); err != nil {
		return mapEventUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func parseQueryInt(c fiber.Ctx, key string, defaultVal int) int {
	s := c.Query(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

func parseTimeQuery(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func mapEventUsecaseError(err error) error {
	switch {
	case errors.Is(err, eventuc.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	case errors.Is(err, event.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Event not found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
