package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"teachassist/internal/delivery/http/dto"
	"teachassist/internal/delivery/http/middleware"
	"teachassist/internal/domain/user"
	"teachassist/internal/pkg/response"
	useruc "teachassist/internal/usecase/user"
)

type UserHandler struct {
	uc *useruc.Service
}

type onboardingRequest struct {
	FullName          string   `json:"full_name"`
	SchoolName        string   `json:"school_name"`
	SubjectsTaught    []string `json:"subjects_taught"`
	GradeLevels       []string `json:"grade_levels"`
	YearsOfExperience int      `json:"years_of_experience"`
	TeachingStyle     string   `json:"teaching_style"`
	Interests         []string `json:"interests"`
}

type settingsRequest struct {
	FullName          string   `json:"full_name"`
	SchoolName        string   `json:"school_name"`
	SubjectsTaught    []string `json:"subjects_taught"`
	GradeLevels       []string `json:"grade_levels"`
	YearsOfExperience int      `json:"years_of_experience"`
	TeachingStyle     string   `json:"teaching_style"`
	Interests         []string `json:"interests"`

	ReminderLeadMinutes int    `json:"event_reminder"`
	NotificationStyle   string `json:"notification_style"`
}

type changePasswordRequest struct {
	NewPassword string `json:"new_password"`
}

type deleteAccountRequest struct {
	ConfirmEmail string `json:"confirm_email"`
}

func NewUserHandler(uc *useruc.Service) *UserHandler {
	return &UserHandler{uc: uc}
}

// RegisterRoutes mounts the routes that only require authentication.
// Onboarding must stay reachable before the gate.
func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/me", h.GetMe)
	r.Post("/me/onboarding", h.CompleteOnboarding)
}

// RegisterGatedRoutes mounts the routes behind the onboarding gate.
func (h *UserHandler) RegisterGatedRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Put("/me/settings", h.UpdateSettings)
	r.Put("/me/password", h.ChangePassword)
	r.Delete("/me", h.DeleteAccount)
}

func (h *UserHandler) GetMe(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	usr, err := h.uc.GetMe(c.Context(), userID)
	if err != nil {
		return mapUserUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserResponse(usr))
}

func (h *UserHandler) CompleteOnboarding(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req onboardingRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	usr, err := h.uc.CompleteOnboarding(c.Context(), userID, useruc.OnboardingInput{
		FullName:          req.FullName,
		SchoolName:        req.SchoolName,
		SubjectsTaught:    req.SubjectsTaught,
		GradeLevels:       req.GradeLevels,
		YearsOfExperience: req.YearsOfExperience,
		TeachingStyle:     req.TeachingStyle,
		Interests:         req.Interests,
	})
	if err != nil {
		return mapUserUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserResponse(usr))
}

func (h *UserHandler) UpdateSettings(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req settingsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	usr, err := h.uc.UpdateSettings(c.Context(), userID, useruc.SettingsInput{
		FullName:            req.FullName,
		SchoolName:          req.SchoolName,
		SubjectsTaught:      req.SubjectsTaught,
		GradeLevels:         req.GradeLevels,
		YearsOfExperience:   req.YearsOfExperience,
		TeachingStyle:       req.TeachingStyle,
		Interests:           req.Interests,
		ReminderLeadMinutes: req.ReminderLeadMinutes,
		NotificationStyle:   user.NotificationStyle(req.NotificationStyle),
	})
	if err != nil {
		return mapUserUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserResponse(usr))
}

func (h *UserHandler) ChangePassword(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req changePasswordRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	if err := h.uc.ChangePassword(c.Context(), userID, req.NewPassword); err != nil {
		return mapUserUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func (h *UserHandler) DeleteAccount(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req deleteAccountRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	if err := h.uc.DeleteAccount(c.Context(), userID, req.ConfirmEmail); err != nil {
		if errors.Is(err, useruc.ErrEmailMismatch) {
			return middleware.NewAppError(fiber.StatusBadRequest, "Confirmation email does not match", nil, err)
		}
		return mapUserUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func mapUserUsecaseError(err error) error {
	switch {
	case errors.Is(err, useruc.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	case errors.Is(err, user.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
