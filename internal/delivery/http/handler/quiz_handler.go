package handler

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"teachassist/internal/delivery/http/dto"
	"teachassist/internal/delivery/http/middleware"
	"teachassist/internal/domain/quiz"
	"teachassist/internal/infrastructure/llm"
	"teachassist/internal/pkg/response"
	quizuc "teachassist/internal/usecase/quiz"
)

const billingURL = "https://platform.openai.com/account/billing"

type QuizHandler struct {
	uc *quizuc.Service
}

type generateQuizRequest struct {
	Topic         string `json:"topic"`
	QuestionCount int    `json:"question_count"`
	Difficulty    string `json:"difficulty"`
	Instructions  string `json:"additional_instructions"`

	IncludeHeader *bool `json:"include_header"`
	IncludeFooter *bool `json:"include_footer"`
}

func NewQuizHandler(uc *quizuc.Service) *QuizHandler {
	return &QuizHandler{uc: uc}
}

func (h *QuizHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/generate", h.Generate)
	r.Get("/", h.List)
	r.Get("/:id", h.Get)
	r.Get("/:id/document", h.Document)
}

func (h *QuizHandler) Generate(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req generateQuizRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	result, err := h.uc.Generate(c.Context(), userID, quizuc.GenerateInput{
		Topic:         req.Topic,
		QuestionCount: req.QuestionCount,
		Difficulty:    quiz.Difficulty(req.Difficulty),
		Instructions:  req.Instructions,
	})
	if err != nil {
		return mapQuizUsecaseError(err)
	}

	opts := quiz.DocumentOptions{
		IncludeHeader: req.IncludeHeader == nil || *req.IncludeHeader,
		IncludeFooter: req.IncludeFooter == nil || *req.IncludeFooter,
		Difficulty:    quiz.Difficulty(req.Difficulty),
	}
	res := dto.NewGeneratedQuizResponse(result.Quiz, result.Persisted, opts)
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, res)
}

func (h *QuizHandler) List(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	quizzes, err := h.uc.List(c.Context(), userID)
	if err != nil {
		return mapQuizUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewQuizListResponse(quizzes))
}

func (h *QuizHandler) Get(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid quiz id", nil, err)
	}

	q, err := h.uc.Get(c.Context(), userID, id)
	if err != nil {
		return mapQuizUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewQuizResponse(q))
}

// Document streams a quiz as a plain-text attachment. answers=true selects
// the answer-key variant; difficulty only labels the header.
func (h *QuizHandler) Document(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid quiz id", nil, err)
	}

	includeAnswers := c.Query("answers") == "true"
	difficulty := quiz.Difficulty(c.Query("difficulty", string(quiz.DifficultyMedium)))
	if !difficulty.Valid() {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid difficulty", nil, nil)
	}

	filename, content, err := h.uc.Document(c.Context(), userID, id, includeAnswers, difficulty)
	if err != nil {
		return mapQuizUsecaseError(err)
	}

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Status(fiber.StatusOK).SendString(content)
}

// mapQuizUsecaseError keeps each provider failure distinguishable so the
// client can show the right remediation.
func mapQuizUsecaseError(err error) error {
	switch {
	case errors.Is(err, quizuc.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	case errors.Is(err, llm.ErrMissingAPIKey):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "OpenAI API key is not configured. Set OPENAI_API_KEY and restart the server.", nil, err)
	case errors.Is(err, llm.ErrInvalidAPIKey):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Invalid OpenAI API key. Check the configured key and try again.", nil, err)
	case errors.Is(err, llm.ErrQuotaExceeded):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "OpenAI quota exceeded. Check your plan and billing details at "+billingURL, nil, err)
	case errors.Is(err, quiz.ErrMalformed):
		return middleware.NewAppError(fiber.StatusBadGateway, "The AI returned an unexpected response. Please try again.", nil, err)
	case errors.Is(err, llm.ErrEmptyResponse), errors.Is(err, llm.ErrRequestFailed):
		return middleware.NewAppError(fiber.StatusBadGateway, "Failed to reach the AI service. Please try again.", nil, err)
	case errors.Is(err, quiz.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Quiz not found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
