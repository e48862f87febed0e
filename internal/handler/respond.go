package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/VibeCodiac/UnTrash-Emergent/internal/apperr"
	"github.com/VibeCodiac/UnTrash-Emergent/internal/middleware"
)

// RespondError translates an engine error into the standard API error shape.
// Unknown errors collapse to a generic 500 so internals never leak.
func RespondError(c fiber.Ctx, err error) error {
	var e *apperr.Error
	if !errors.As(err, &e) {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}

	status := fiber.StatusInternalServerError
	switch e.Kind {
	case apperr.Validation:
		status = fiber.StatusBadRequest
	case apperr.InvalidState:
		status = fiber.StatusConflict
	case apperr.Conflict:
		status = fiber.StatusConflict
	case apperr.Authorization:
		status = fiber.StatusForbidden
	case apperr.NotFound:
		status = fiber.StatusNotFound
	}

	return middleware.ErrorResponse(c, status, e.Code, e.Message)
}
