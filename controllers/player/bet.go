package player

import (
	"matka/draws"
	"matka/helpers"
	"matka/models"
	"matka/services"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	Svc *services.Service
}

type placeBetRequest struct {
	MarketID uint   `json:"market_id"`
	BetType  string `json:"bet_type"`
	Number   string `json:"number"`
	Session  string `json:"session"`
	Stake    int64  `json:"stake"`
}

func (h *Handler) PlaceBet(c *fiber.Ctx) error {
	var req placeBetRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "Invalid request format")
	}

	acc := c.Locals("account").(models.Account)
	out, err := h.Svc.PlaceBet(services.PlaceBetInput{
		AccountCode: acc.Code,
		MarketID:    req.MarketID,
		BetType:     draws.BetType(req.BetType),
		Number:      req.Number,
		Session:     draws.Session(req.Session),
		Stake:       req.Stake,
	})
	if err != nil {
		return helpers.ServiceError(c, err)
	}

	return helpers.JSONSuccess(c, "BET_PLACED", fiber.Map{
		"bet":           out.Bet,
		"balance_after": out.BalanceAfter,
	})
}
