package admin

import (
	"matka/draws"
	"matka/helpers"
	"matka/services"

	"github.com/gofiber/fiber/v2"
)

type declareResultRequest struct {
	MarketID uint   `json:"market_id"`
	Session  string `json:"session"`
	Panna    string `json:"panna"`
}

func (h *Handler) DeclareResult(c *fiber.Ctx) error {
	var req declareResultRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "Invalid request format")
	}

	out, err := h.Svc.DeclareResult(services.DeclareResultInput{
		MarketID:   req.MarketID,
		Session:    draws.Session(req.Session),
		Panna:      req.Panna,
		DeclaredBy: adminCode(c),
	})
	if err != nil {
		return helpers.ServiceError(c, err)
	}

	return helpers.JSONSuccess(c, "RESULT_DECLARED", fiber.Map{
		"result":     out.Result,
		"settlement": out.Summary,
	})
}

type rollbackRequest struct {
	ResultID uint `json:"result_id"`
}

func (h *Handler) RollbackSettlement(c *fiber.Ctx) error {
	var req rollbackRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "Invalid request format")
	}

	out, err := h.Svc.RollbackSettlement(req.ResultID, adminCode(c))
	if err != nil {
		return helpers.ServiceError(c, err)
	}
	return helpers.JSONSuccess(c, "SETTLEMENT_ROLLED_BACK", out)
}

func (h *Handler) RollbackableResults(c *fiber.Ctx) error {
	results, err := h.Svc.RollbackableResults()
	if err != nil {
		return helpers.ServiceError(c, err)
	}
	return helpers.JSONSuccess(c, "ROLLBACKABLE_RESULTS", results)
}
