package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/feira-troca/backend/controllers"
)

func RegisterAuthRoutes(app *fiber.App, h *controllers.AuthController) {
	app.Post("/login", h.Login)
}
