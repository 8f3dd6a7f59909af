package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/feira-troca/backend/controllers"
)

func RegisterTradeRoutes(app *fiber.App, h *controllers.TradeController, guard fiber.Handler) {
	app.Post("/propose-trade", guard, h.ProposeTrade)
	app.Get("/proposals", h.GetProposals)
	app.Post("/accept-trade", guard, h.AcceptTrade)
}
