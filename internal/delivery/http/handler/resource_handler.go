package handler

import (
	"errors"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"teachassist/internal/delivery/http/dto"
	"teachassist/internal/delivery/http/middleware"
	"teachassist/internal/domain/resource"
	"teachassist/internal/pkg/response"
	resourceuc "teachassist/internal/usecase/resource"
)

type ResourceHandler struct {
	uc *resourceuc.Service
}

type createLinkRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	URL         string `json:"url"`
}

func NewResourceHandler(uc *resourceuc.Service) *ResourceHandler {
	return &ResourceHandler{uc: uc}
}

func (h *ResourceHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.List)
	r.Post("/", h.CreateLink)
	r.Post("/upload", h.Upload)
	r.Get("/:id/download", h.Download)
	r.Delete("/:id", h.Delete)
}

func (h *ResourceHandler) List(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	resources, err := h.uc.List(c.Context(), userID, c.Query("q"))
	if err != nil {
		return mapResourceUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewResourceListResponse(resources))
}

func (h *ResourceHandler) CreateLink(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req createLinkRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	res, err := h.uc.CreateLink(c.Context(), userID, resourceuc.LinkInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        resource.Type(req.Type),
		URL:         req.URL,
	})
	if err != nil {
		return mapResourceUsecaseError(err)
	}

	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.NewResourceResponse(res))
}

// Upload accepts a multipart form with a "file" part plus optional title and
// description fields. Size and MIME type are validated before any byte lands
// on disk.
func (h *ResourceHandler) Upload(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Missing file", nil, err)
	}

	f, err := fh.Open()
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Unreadable file", nil, err)
	}
	defer f.Close()

	res, err := h.uc.Upload(c.Context(), userID, resourceuc.UploadInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Content:     f,
	})
	if err != nil {
		return mapResourceUsecaseError(err)
	}

	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.NewResourceResponse(res))
}

func (h *ResourceHandler) Download(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid resource id", nil, err)
	}

	res, rc, err := h.uc.Download(c.Context(), userID, id)
	if err != nil {
		return mapResourceUsecaseError(err)
	}
	defer rc.Close()

	if res.FileType != "" {
		c.Set(fiber.HeaderContentType, res.FileType)
	}
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", res.Title))

	data, err := io.ReadAll(rc)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return c.Status(fiber.StatusOK).Send(data)
}

func (h *ResourceHandler) Delete(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid resource id", nil, err)
	}

	if err := h.uc.Delete(c.Context(), userID, id); err != nil {
		return mapResourceUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func mapResourceUsecaseError(err error) error {
	switch {
	case errors.Is(err, resource.ErrFileTooLarge):
		return middleware.NewAppError(fiber.StatusBadRequest, resource.ErrFileTooLarge.Error(), nil, err)
	case errors.Is(err, resource.ErrFileTypeDenied):
		return middleware.NewAppError(fiber.StatusBadRequest, "File type not allowed", nil, err)
	case errors.Is(err, resourceuc.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	case errors.Is(err, resourceuc.ErrNoFile):
		return middleware.NewAppError(fiber.StatusNotFound, "Resource has no file", nil, err)
	case errors.Is(err, resource.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Resource not found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
