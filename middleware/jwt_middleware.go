package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/feira-troca/backend/services"
)

const traderKey = "trader"

// JWTMiddleware requires a Bearer token issued by auth and stores the
// trader's name in the request locals.
func JWTMiddleware(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return &services.UnauthorizedError{Message: "token required in Bearer format"}
		}

		claims, err := auth.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			return err
		}

		log.Debugf("JWT claims - FeiranteID: %d, Name: %s", claims.FeiranteID, claims.Name)
		c.Locals(traderKey, claims.Name)
		return c.Next()
	}
}

// CurrentTrader returns the authenticated trader's name, or "" when the
// request did not pass through JWTMiddleware.
func CurrentTrader(c *fiber.Ctx) string {
	name, _ := c.Locals(traderKey).(string)
	return name
}
