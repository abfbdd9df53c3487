package handler

import (
	"context"
	"time"

	"github.com/mcunha12/medstudent/internal/domain"
	"github.com/mcunha12/medstudent/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const cachePingTimeout = 2 * time.Second

type HealthHandler struct {
	cache domain.Cache // optional
}

func NewHealthHandler(cache domain.Cache) *HealthHandler {
	return &HealthHandler{cache: cache}
}

// Check handles GET /health. The cache is optional, so an unreachable Redis
// degrades the report without failing it.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	if h.cache == nil {
		return c.JSON(fiber.Map{"status": "ok", "cache": "disabled"})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), cachePingTimeout)
	defer cancel()
	if err := h.cache.Ping(ctx); err != nil {
		logger.Get().Warn("Health check: cache ping failed", zap.Error(err))
		return c.JSON(fiber.Map{"status": "degraded", "cache": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ok", "cache": "ok"})
}
