package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/VibeCodiac/UnTrash-Emergent/internal/apperr"
	"github.com/VibeCodiac/UnTrash-Emergent/internal/repository"
)

// Locals keys populated by RequireUser.
const (
	LocalUserID  = "userID"
	LocalIsAdmin = "isAdmin"
)

// RequireUser resolves the caller from the trusted X-User-ID header set by
// the API gateway after session validation. The engine never sees raw
// credentials. Banned users can still read but every mutation is rejected.
func RequireUser(users *repository.UserRepo) fiber.Handler {
	return func(c fiber.Ctx) error {
		userID, errMsg := ValidateUserID(c.Get("X-User-ID"))
		if errMsg != "" {
			return ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", errMsg)
		}

		u, err := users.FindByUserID(c.Context(), userID)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "unknown user")
			}
			return ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL", "user lookup failed")
		}

		if u.IsBanned && c.Method() != fiber.MethodGet {
			return ErrorResponse(c, fiber.StatusForbidden, "FORBIDDEN", "account is suspended")
		}

		c.Locals(LocalUserID, u.UserID)
		c.Locals(LocalIsAdmin, u.IsAdmin)
		return c.Next()
	}
}

// RequireAdmin gates the moderation and admin surface. Must run after
// RequireUser.
func RequireAdmin() fiber.Handler {
	return func(c fiber.Ctx) error {
		isAdmin, _ := c.Locals(LocalIsAdmin).(bool)
		if !isAdmin {
			return ErrorResponse(c, fiber.StatusForbidden, "FORBIDDEN", "admin access required")
		}
		return c.Next()
	}
}

// UserID returns the authenticated user's ID from the request context.
func UserID(c fiber.Ctx) string {
	uid, _ := c.Locals(LocalUserID).(string)
	return uid
}
