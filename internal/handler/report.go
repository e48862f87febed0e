package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/VibeCodiac/UnTrash-Emergent/internal/middleware"
	"github.com/VibeCodiac/UnTrash-Emergent/internal/model"
	"github.com/VibeCodiac/UnTrash-Emergent/internal/service"
)

type ReportHandler struct {
	svc *service.SubmissionService
}

func NewReportHandler(svc *service.SubmissionService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// Create handles POST /api/trash
func (h *ReportHandler) Create(c fiber.Ctx) error {
	var req model.ReportRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	if req.Location == nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "location is required")
	}
	if errMsg := middleware.ValidateCoordinates(req.Location.Lat, req.Location.Lng); errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	imageURL, errMsg := middleware.ValidateImageURL(req.ImageURL)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.ImageURL = imageURL

	report, err := h.svc.Report(c.Context(), middleware.UserID(c), req)
	if err != nil {
		return RespondError(c, err)
	}

	if Metrics.SubmissionsTotal != nil {
		Metrics.SubmissionsTotal.WithLabelValues("report").Inc()
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

// List handles GET /api/trash?status=&limit=
func (h *ReportHandler) List(c fiber.Ctx) error {
	status := fiber.Query[string](c, "status")
	if status != "" && status != model.StatusReported && status != model.StatusCollected {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "status must be 'reported' or 'collected'")
	}

	limit := fiber.Query[int](c, "limit", 200)
	if limit <= 0 || limit > 500 {
		limit = 200
	}

	reports, err := h.svc.List(c.Context(), status, limit)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(fiber.Map{"reports": reports, "count": len(reports)})
}

// Get handles GET /api/trash/:reportId
func (h *ReportHandler) Get(c fiber.Ctx) error {
	reportID, errMsg := middleware.ValidateReportID(c.Params("reportId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	report, err := h.svc.Get(c.Context(), reportID)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(report)
}

// Collect handles POST /api/trash/:reportId/collect
func (h *ReportHandler) Collect(c fiber.Ctx) error {
	reportID, errMsg := middleware.ValidateReportID(c.Params("reportId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	var req model.CollectRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}
	proofURL, errMsg := middleware.ValidateImageURL(req.ProofImageURL)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.ProofImageURL = proofURL

	resp, err := h.svc.Collect(c.Context(), middleware.UserID(c), reportID, req)
	if err != nil {
		return RespondError(c, err)
	}

	if Metrics.SubmissionsTotal != nil {
		Metrics.SubmissionsTotal.WithLabelValues("collection").Inc()
	}
	return c.JSON(resp)
}
