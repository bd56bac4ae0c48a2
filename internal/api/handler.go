package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Handler struct {
	logger *zap.Logger
	health HealthChecker
}

func NewHandler(logger *zap.Logger, health HealthChecker) *Handler {
	return &Handler{logger: logger, health: health}
}

func (h *Handler) Pong(c *fiber.Ctx) error {
	return c.SendString("pong")
}

func (h *Handler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	if err := h.health.HealthCheck(ctx); err != nil {
		h.logger.Warn("Health check failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unhealthy", "database": err.Error()})
	}

	return c.JSON(fiber.Map{"status": "ok"})
}
