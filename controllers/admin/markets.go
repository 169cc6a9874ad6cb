package admin

import (
	"matka/draws"
	"matka/helpers"
	"matka/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type createMarketRequest struct {
	Name       string `json:"name"`
	OpenTime   string `json:"open_time"`
	CloseTime  string `json:"close_time"`
	ResultTime string `json:"result_time"`
}

func (h *Handler) CreateMarket(c *fiber.Ctx) error {
	var req createMarketRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "Invalid request format")
	}
	m, err := h.Svc.CreateMarket(services.CreateMarketInput{
		Name:       req.Name,
		OpenTime:   req.OpenTime,
		CloseTime:  req.CloseTime,
		ResultTime: req.ResultTime,
	})
	if err != nil {
		return helpers.ServiceError(c, err)
	}
	return helpers.JSONSuccess(c, "MARKET_CREATED", m)
}

func (h *Handler) ListMarkets(c *fiber.Ctx) error {
	ms, err := h.Svc.ListMarkets()
	if err != nil {
		return helpers.ServiceError(c, err)
	}
	return helpers.JSONSuccess(c, "MARKETS", ms)
}

type setRateRequest struct {
	MarketID   *uint  `json:"market_id"`
	BetType    string `json:"bet_type"`
	Multiplier string `json:"multiplier"`
}

func (h *Handler) SetPayoutRate(c *fiber.Ctx) error {
	var req setRateRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "Invalid request format")
	}
	multiplier, err := decimal.NewFromString(req.Multiplier)
	if err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "Invalid multiplier")
	}
	rate, err := h.Svc.SetPayoutRate(req.MarketID, draws.BetType(req.BetType), multiplier)
	if err != nil {
		return helpers.ServiceError(c, err)
	}
	return helpers.JSONSuccess(c, "RATE_SET", rate)
}
