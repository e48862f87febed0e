package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/VibeCodiac/UnTrash-Emergent/internal/service"
)

type HeatmapHandler struct {
	svc *service.HeatmapService
}

func NewHeatmapHandler(svc *service.HeatmapService) *HeatmapHandler {
	return &HeatmapHandler{svc: svc}
}

// Get handles GET /api/heatmap — the litter-density snapshot.
func (h *HeatmapHandler) Get(c fiber.Ctx) error {
	resp, err := h.svc.Snapshot(c.Context())
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(resp)
}
