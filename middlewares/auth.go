package middlewares

import (
	"os"

	"matka/helpers"
	"matka/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PlayerAuth resolves X-Account-Code to an active player account and stores
// it in locals. Real credential checking lives in the surrounding platform;
// this only binds requests to accounts.
func PlayerAuth(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := c.Get("X-Account-Code")
		if code == "" {
			return helpers.JSONError(c, fiber.StatusUnauthorized, "ACCOUNT_CODE_REQUIRED")
		}

		var acc models.Account
		if err := db.Where("code = ? AND tier = ? AND is_active = true", code, models.TierPlayer).
			First(&acc).Error; err != nil {
			return helpers.JSONError(c, fiber.StatusUnauthorized, "INVALID_ACCOUNT_CODE")
		}

		c.Locals("account", acc)
		return c.Next()
	}
}

// AdminAuth gates the operator routes on the shared ADMIN_API_KEY.
func AdminAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get("X-Admin-Key")
		if key == "" || key != os.Getenv("ADMIN_API_KEY") {
			return helpers.JSONError(c, fiber.StatusUnauthorized, "INVALID_ADMIN_KEY")
		}
		c.Locals("admin_code", c.Get("X-Admin-Code", "admin"))
		return c.Next()
	}
}
