package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/feira-troca/backend/controllers"
)

// RegisterTraderRoutes mounts the trader endpoints. Registration stays open.
func RegisterTraderRoutes(app *fiber.App, h *controllers.TraderController, guard fiber.Handler) {
	app.Post("/postfeirante", h.CreateTrader)
	app.Get("/gettraders", h.GetTraders)
	app.Delete("/deletetrader", guard, h.DeleteTrader)
}
