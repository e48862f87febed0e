package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/VibeCodiac/UnTrash-Emergent/internal/middleware"
	"github.com/VibeCodiac/UnTrash-Emergent/internal/model"
	"github.com/VibeCodiac/UnTrash-Emergent/internal/service"
)

// AdminHandler covers the moderation queues and the admin override surface.
// Route-level RequireAdmin gates everything here; handlers assume an admin.
type AdminHandler struct {
	submissions *service.SubmissionService
	areas       *service.AreaService
	moderation  *service.ModerationService
	users       *service.UserService
}

func NewAdminHandler(submissions *service.SubmissionService, areas *service.AreaService, moderation *service.ModerationService, users *service.UserService) *AdminHandler {
	return &AdminHandler{submissions: submissions, areas: areas, moderation: moderation, users: users}
}

// PendingCollections handles GET /api/admin/pending-collections
func (h *AdminHandler) PendingCollections(c fiber.Ctx) error {
	pending, err := h.moderation.PendingCollections(c.Context())
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(fiber.Map{"collections": pending, "count": len(pending)})
}

// PendingAreas handles GET /api/admin/pending-areas
func (h *AdminHandler) PendingAreas(c fiber.Ctx) error {
	pending, err := h.moderation.PendingAreas(c.Context())
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(fiber.Map{"areas": pending, "count": len(pending)})
}

// PendingCount handles GET /api/admin/pending-count — the badge counter.
func (h *AdminHandler) PendingCount(c fiber.Ctx) error {
	count, err := h.moderation.PendingCount(c.Context())
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(count)
}

// ApproveCollection handles POST /api/admin/collections/:reportId/approve
func (h *AdminHandler) ApproveCollection(c fiber.Ctx) error {
	reportID, errMsg := middleware.ValidateReportID(c.Params("reportId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	report, settled, err := h.submissions.ApproveCollection(c.Context(), reportID)
	if err != nil {
		return RespondError(c, err)
	}

	// An idempotent re-approve returns the existing award without settling;
	// counting it again would inflate the credited totals.
	if settled && Metrics.SettlementsTotal != nil {
		Metrics.SettlementsTotal.WithLabelValues("collection", "approved").Inc()
		Metrics.PointsCreditedTotal.Add(float64(report.PointsAwarded))
	}
	return c.JSON(report)
}

// RejectCollection handles POST /api/admin/collections/:reportId/reject
func (h *AdminHandler) RejectCollection(c fiber.Ctx) error {
	reportID, errMsg := middleware.ValidateReportID(c.Params("reportId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	report, err := h.submissions.RejectCollection(c.Context(), reportID)
	if err != nil {
		return RespondError(c, err)
	}

	if Metrics.SettlementsTotal != nil {
		Metrics.SettlementsTotal.WithLabelValues("collection", "rejected").Inc()
	}
	return c.JSON(report)
}

// ApproveArea handles POST /api/admin/areas/:areaId/approve
func (h *AdminHandler) ApproveArea(c fiber.Ctx) error {
	areaID, errMsg := middleware.ValidateAreaID(c.Params("areaId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	area, settled, err := h.areas.Approve(c.Context(), areaID)
	if err != nil {
		return RespondError(c, err)
	}

	if settled && Metrics.SettlementsTotal != nil {
		Metrics.SettlementsTotal.WithLabelValues("area", "approved").Inc()
		Metrics.PointsCreditedTotal.Add(float64(area.PointsAwarded))
	}
	return c.JSON(area)
}

// RejectArea handles POST /api/admin/areas/:areaId/reject
func (h *AdminHandler) RejectArea(c fiber.Ctx) error {
	areaID, errMsg := middleware.ValidateAreaID(c.Params("areaId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	if err := h.areas.Reject(c.Context(), areaID); err != nil {
		return RespondError(c, err)
	}

	if Metrics.SettlementsTotal != nil {
		Metrics.SettlementsTotal.WithLabelValues("area", "rejected").Inc()
	}
	return c.JSON(fiber.Map{"success": true})
}

// UpdateReport handles PUT /api/admin/trash/:reportId
func (h *AdminHandler) UpdateReport(c fiber.Ctx) error {
	reportID, errMsg := middleware.ValidateReportID(c.Params("reportId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	var req model.UpdateReportRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}
	if req.Location != nil {
		if errMsg := middleware.ValidateCoordinates(req.Location.Lat, req.Location.Lng); errMsg != "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
		}
	}
	if req.ImageURL != nil {
		imageURL, errMsg := middleware.ValidateImageURL(*req.ImageURL)
		if errMsg != "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
		}
		req.ImageURL = &imageURL
	}

	report, err := h.submissions.UpdateReport(c.Context(), reportID, req)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(report)
}

// DeleteReport handles DELETE /api/admin/trash/:reportId
func (h *AdminHandler) DeleteReport(c fiber.Ctx) error {
	reportID, errMsg := middleware.ValidateReportID(c.Params("reportId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	resp, err := h.submissions.DeleteReport(c.Context(), reportID)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(resp)
}

// DeleteArea handles DELETE /api/admin/areas/:areaId
func (h *AdminHandler) DeleteArea(c fiber.Ctx) error {
	areaID, errMsg := middleware.ValidateAreaID(c.Params("areaId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	resp, err := h.areas.Delete(c.Context(), areaID)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(resp)
}

// ListUsers handles GET /api/admin/users?limit=
func (h *AdminHandler) ListUsers(c fiber.Ctx) error {
	limit := fiber.Query[int](c, "limit", 100)

	users, err := h.users.List(c.Context(), limit)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(fiber.Map{"users": users, "count": len(users)})
}

// BanUser handles POST /api/admin/users/:userId/ban
func (h *AdminHandler) BanUser(c fiber.Ctx) error {
	return h.setBanned(c, true)
}

// UnbanUser handles POST /api/admin/users/:userId/unban
func (h *AdminHandler) UnbanUser(c fiber.Ctx) error {
	return h.setBanned(c, false)
}

func (h *AdminHandler) setBanned(c fiber.Ctx, banned bool) error {
	userID, errMsg := middleware.ValidateUserID(c.Params("userId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	if err := h.users.SetBanned(c.Context(), userID, banned); err != nil {
		return RespondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "banned": banned})
}

// ResetPoints handles POST /api/admin/users/:userId/reset-points
func (h *AdminHandler) ResetPoints(c fiber.Ctx) error {
	userID, errMsg := middleware.ValidateUserID(c.Params("userId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	var req model.ResetPointsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	resp, err := h.users.ResetPoints(c.Context(), userID, req)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(resp)
}
