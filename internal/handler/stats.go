package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/VibeCodiac/UnTrash-Emergent/internal/service"
)

type StatsHandler struct {
	svc *service.SubmissionService
}

func NewStatsHandler(svc *service.SubmissionService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

// Weekly handles GET /api/stats/weekly — city-wide activity for the current
// ISO week.
func (h *StatsHandler) Weekly(c fiber.Ctx) error {
	stats, err := h.svc.WeeklyStats(c.Context())
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(stats)
}
