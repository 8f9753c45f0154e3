package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"teachassist/internal/database"
	"teachassist/internal/infrastructure/cache"
	"teachassist/internal/pkg/response"
)

type HealthHandler struct {
	db    database.DB
	cache *cache.Redis
}

func NewHealthHandler(db database.DB, c *cache.Redis) *HealthHandler {
	return &HealthHandler{db: db, cache: c}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/healthz", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "ok"
	if h.db == nil || h.db.Ping(ctx) != nil {
		dbStatus = "down"
	}

	cacheStatus := "ok"
	if h.cache == nil || h.cache.Ping(ctx) != nil {
		cacheStatus = "down"
	}

	status := fiber.StatusOK
	if dbStatus != "ok" {
		status = fiber.StatusServiceUnavailable
	}

	data := map[string]string{
		"database": dbStatus,
		"cache":    cacheStatus,
	}
	return response.Success(c, status, response.DefaultMessageForStatus(status), data)
}
