package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/attendance-service/internal/service"
)

// StatsHandler exposes the dashboard aggregates.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler constructs handler.
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: statsService}
}

// Dashboard handles GET /api/stats and GET /api/stats/dashboard.
func (h *StatsHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.stats.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}
