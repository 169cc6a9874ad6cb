package admin

import (
	"matka/helpers"
	"matka/services"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	Svc *services.Service
}

func adminCode(c *fiber.Ctx) string {
	if code, ok := c.Locals("admin_code").(string); ok {
		return code
	}
	return "admin"
}

type registerAccountRequest struct {
	ParentCode  string  `json:"parent_code"`
	Tier        string  `json:"tier"`
	Name        string  `json:"name"`
	DealPercent float64 `json:"deal_percent"`
}

func (h *Handler) RegisterAccount(c *fiber.Ctx) error {
	var req registerAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "Invalid request format")
	}

	acc, err := h.Svc.RegisterAccount(services.RegisterAccountInput{
		ParentCode:  req.ParentCode,
		Tier:        req.Tier,
		Name:        req.Name,
		DealPercent: req.DealPercent,
	})
	if err != nil {
		return helpers.ServiceError(c, err)
	}
	return helpers.JSONSuccess(c, "ACCOUNT_REGISTERED", acc)
}

type adjustBalanceRequest struct {
	Code   string `json:"code"`
	Amount int64  `json:"amount"`
}

func (h *Handler) Topup(c *fiber.Ctx) error {
	var req adjustBalanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "Invalid request format")
	}
	acc, err := h.Svc.Topup(req.Code, req.Amount, adminCode(c))
	if err != nil {
		return helpers.ServiceError(c, err)
	}
	return helpers.JSONSuccess(c, "TOPUP_DONE", fiber.Map{
		"code":    acc.Code,
		"balance": acc.Balance,
	})
}

func (h *Handler) Withdraw(c *fiber.Ctx) error {
	var req adjustBalanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "Invalid request format")
	}
	acc, err := h.Svc.Withdraw(req.Code, req.Amount, adminCode(c))
	if err != nil {
		return helpers.ServiceError(c, err)
	}
	return helpers.JSONSuccess(c, "WITHDRAW_DONE", fiber.Map{
		"code":    acc.Code,
		"balance": acc.Balance,
	})
}
