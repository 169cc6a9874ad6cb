package helpers

import (
	"errors"

	"matka/services"

	"github.com/gofiber/fiber/v2"
)

func JSONSuccess(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func JSONError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
		"data":    nil,
	})
}

// ServiceError maps a service sentinel to its HTTP rejection. Anything not
// recognized is a transactional failure: surfaced as a 500 for operators,
// with the internal text kept out of the response.
func ServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return JSONError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		return JSONError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrBettingClosed),
		errors.Is(err, services.ErrAccountBlocked),
		errors.Is(err, services.ErrAccountInactive),
		errors.Is(err, services.ErrInsufficientBalance):
		return JSONError(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrDuplicateEntry),
		errors.Is(err, services.ErrInvalidState):
		return JSONError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrNoRateConfigured):
		// Operator misconfiguration: blocks a whole market, never swallowed.
		return JSONError(c, fiber.StatusInternalServerError, err.Error())
	default:
		return JSONError(c, fiber.StatusInternalServerError, "transaction failed")
	}
}
