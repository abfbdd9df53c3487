package handler

import (
	"github.com/mcunha12/medstudent/internal/domain"
	"github.com/mcunha12/medstudent/internal/middleware"
	"github.com/mcunha12/medstudent/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UserHandler serves the per-user dashboards.
type UserHandler struct {
	performance service.PerformanceService
	ranking     service.RankingService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(performance service.PerformanceService, ranking service.RankingService) *UserHandler {
	return &UserHandler{performance: performance, ranking: ranking}
}

// GetMyPerformance handles GET /api/performance
func (h *UserHandler) GetMyPerformance(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return unauthenticated(c)
	}

	report, err := h.performance.GetPerformance(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(report)
}

// GetMyRanking handles GET /api/ranking?period=day|week. The period is
// checked by ValidationMiddleware.ValidatePeriod.
func (h *UserHandler) GetMyRanking(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return unauthenticated(c)
	}

	period, ok := c.Locals(middleware.ValidatedPeriodKey).(domain.Period)
	if !ok {
		period = domain.PeriodWeek
	}

	ranking, err := h.ranking.GetRanking(c.UserContext(), userID, period)
	if err != nil {
		return err
	}
	return c.JSON(ranking)
}
