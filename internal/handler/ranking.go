package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/VibeCodiac/UnTrash-Emergent/internal/middleware"
	"github.com/VibeCodiac/UnTrash-Emergent/internal/service"
)

type RankingHandler struct {
	svc *service.UserService
}

func NewRankingHandler(svc *service.UserService) *RankingHandler {
	return &RankingHandler{svc: svc}
}

// Users handles GET /api/rankings/users — the weekly user leaderboard.
func (h *RankingHandler) Users(c fiber.Ctx) error {
	entries, err := h.svc.WeeklyRankings(c.Context())
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(fiber.Map{"rankings": entries, "count": len(entries)})
}

// Groups handles GET /api/rankings/groups — the weekly group leaderboard.
func (h *RankingHandler) Groups(c fiber.Ctx) error {
	entries, err := h.svc.WeeklyGroupRankings(c.Context())
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(fiber.Map{"rankings": entries, "count": len(entries)})
}

// Group handles GET /api/groups/:groupId — one group's derived balances.
func (h *RankingHandler) Group(c fiber.Ctx) error {
	groupID, errMsg := middleware.ValidateUserID(c.Params("groupId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "groupId contains invalid characters")
	}

	group, err := h.svc.Group(c.Context(), groupID)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(group)
}
