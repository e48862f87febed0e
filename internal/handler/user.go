package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/VibeCodiac/UnTrash-Emergent/internal/middleware"
	"github.com/VibeCodiac/UnTrash-Emergent/internal/service"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Get handles GET /api/users/:userId — public profile with balances and
// medal history.
func (h *UserHandler) Get(c fiber.Ctx) error {
	userID, errMsg := middleware.ValidateUserID(c.Params("userId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	resp, err := h.svc.Profile(c.Context(), userID)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(resp)
}

// Me handles GET /api/users/me — the authenticated caller's own profile.
func (h *UserHandler) Me(c fiber.Ctx) error {
	resp, err := h.svc.Profile(c.Context(), middleware.UserID(c))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(resp)
}

// Notifications handles GET /api/notifications?limit=
func (h *UserHandler) Notifications(c fiber.Ctx) error {
	limit := fiber.Query[int](c, "limit", 50)

	notifications, err := h.svc.Notifications(c.Context(), middleware.UserID(c), limit)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(fiber.Map{"notifications": notifications, "count": len(notifications)})
}
