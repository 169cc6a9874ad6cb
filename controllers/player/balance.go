package player

import (
	"matka/helpers"
	"matka/models"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) Balance(c *fiber.Ctx) error {
	acc := c.Locals("account").(models.Account)
	fresh, err := h.Svc.Balance(acc.Code)
	if err != nil {
		return helpers.ServiceError(c, err)
	}
	return helpers.JSONSuccess(c, "BALANCE", fiber.Map{
		"code":     fresh.Code,
		"balance":  fresh.Balance,
		"exposure": fresh.Exposure,
	})
}

func (h *Handler) Bets(c *fiber.Ctx) error {
	acc := c.Locals("account").(models.Account)
	date := c.Query("date")
	if date == "" {
		date = h.Svc.Today()
	}
	bets, err := h.Svc.BetsFor(acc.Code, date)
	if err != nil {
		return helpers.ServiceError(c, err)
	}
	return helpers.JSONSuccess(c, "BETS", bets)
}

func (h *Handler) Statement(c *fiber.Ctx) error {
	acc := c.Locals("account").(models.Account)
	entries, err := h.Svc.Statement(acc.Code, c.QueryInt("limit"))
	if err != nil {
		return helpers.ServiceError(c, err)
	}
	return helpers.JSONSuccess(c, "STATEMENT", entries)
}
