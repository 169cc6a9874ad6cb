package routes

import (
	"matka/controllers/admin"
	"matka/controllers/player"
	"matka/middlewares"
	"matka/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func Setup(app *fiber.App, db *gorm.DB, svc *services.Service) {
	playerH := &player.Handler{Svc: svc}
	adminH := &admin.Handler{Svc: svc}

	playerroutes := app.Group("/player", middlewares.PlayerAuth(db))
	playerroutes.Post("/bet", playerH.PlaceBet)
	playerroutes.Post("/balance", playerH.Balance)
	playerroutes.Get("/bets", playerH.Bets)
	playerroutes.Get("/statement", playerH.Statement)

	adminroutes := app.Group("/admin", middlewares.AdminAuth())
	adminroutes.Post("/accounts", adminH.RegisterAccount)
	adminroutes.Post("/accounts/topup", adminH.Topup)
	adminroutes.Post("/accounts/withdraw", adminH.Withdraw)
	adminroutes.Post("/markets", adminH.CreateMarket)
	adminroutes.Get("/markets", adminH.ListMarkets)
	adminroutes.Post("/rates", adminH.SetPayoutRate)
	adminroutes.Post("/results", adminH.DeclareResult)
	adminroutes.Post("/results/rollback", adminH.RollbackSettlement)
	adminroutes.Get("/results/rollbackable", adminH.RollbackableResults)
}
