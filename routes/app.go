package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/feira-troca/backend/controllers"
)

// Controllers groups the handlers mounted by NewApp.
type Controllers struct {
	Items   *controllers.ItemController
	Traders *controllers.TraderController
	Trades  *controllers.TradeController
	Auth    *controllers.AuthController
	Health  *controllers.HealthController
}

type Options struct {
	CORSOrigins string
	// Auth guards mutating routes. Nil leaves every route open.
	Auth fiber.Handler
	// DisableLogger turns off the access log.
	DisableLogger bool
}

func NewApp(h Controllers, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "feira",
		ErrorHandler: controllers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: uuid.NewString,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: opts.CORSOrigins,
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
		AllowHeaders: "Content-Type, Authorization",
	}))
	if !opts.DisableLogger {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		}))
	}

	guard := opts.Auth
	if guard == nil {
		guard = func(c *fiber.Ctx) error { return c.Next() }
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("running")
	})
	app.Get("/health", h.Health.Health)

	RegisterAuthRoutes(app, h.Auth)
	RegisterTraderRoutes(app, h.Traders, guard)
	RegisterItemRoutes(app, h.Items, guard)
	RegisterTradeRoutes(app, h.Trades, guard)

	return app
}
