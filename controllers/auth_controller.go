package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/feira-troca/backend/services"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
}

func (h *AuthController) Login(c *fiber.Ctx) error {
	var creds LoginRequest
	if err := c.BodyParser(&creds); err != nil {
		return badRequest(err)
	}

	token, trader, err := h.auth.Login(c.UserContext(), creds.Name, creds.Password)
	if err != nil {
		return err
	}

	log.Infof("✅ %s logged in", trader.Name)
	return c.JSON(LoginResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
	})
}
