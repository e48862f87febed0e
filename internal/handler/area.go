package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/VibeCodiac/UnTrash-Emergent/internal/middleware"
	"github.com/VibeCodiac/UnTrash-Emergent/internal/model"
	"github.com/VibeCodiac/UnTrash-Emergent/internal/service"
)

type AreaHandler struct {
	svc *service.AreaService
}

func NewAreaHandler(svc *service.AreaService) *AreaHandler {
	return &AreaHandler{svc: svc}
}

// Create handles POST /api/areas
func (h *AreaHandler) Create(c fiber.Ctx) error {
	var req model.AreaRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	if errMsg := middleware.ValidateCoordinates(req.CenterLocation.Lat, req.CenterLocation.Lng); errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	imageURL, errMsg := middleware.ValidateImageURL(req.ImageURL)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.ImageURL = imageURL

	resp, err := h.svc.Submit(c.Context(), middleware.UserID(c), req)
	if err != nil {
		return RespondError(c, err)
	}

	if Metrics.SubmissionsTotal != nil {
		Metrics.SubmissionsTotal.WithLabelValues("area").Inc()
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Active handles GET /api/areas — approved areas inside their green-zone window.
func (h *AreaHandler) Active(c fiber.Ctx) error {
	areas, err := h.svc.Active(c.Context())
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(fiber.Map{"areas": areas, "count": len(areas)})
}

// Get handles GET /api/areas/:areaId
func (h *AreaHandler) Get(c fiber.Ctx) error {
	areaID, errMsg := middleware.ValidateAreaID(c.Params("areaId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	area, err := h.svc.Get(c.Context(), areaID)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(area)
}
