package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/feira-troca/backend/controllers"
)

func RegisterItemRoutes(app *fiber.App, h *controllers.ItemController, guard fiber.Handler) {
	app.Post("/postitem", guard, h.CreateItem)
	app.Get("/getitems", h.GetItems)
	app.Get("/getitemsbytrader", h.GetItemsByTrader)
	app.Delete("/deleteitem", guard, h.DeleteItem)
	app.Put("/edititem", guard, h.EditItem)
}
