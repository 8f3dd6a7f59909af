package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/feira-troca/backend/middleware"
	"github.com/feira-troca/backend/models"
	"github.com/feira-troca/backend/services"
)

type TraderController struct {
	catalog *services.CatalogService
}

func NewTraderController(catalog *services.CatalogService) *TraderController {
	return &TraderController{catalog: catalog}
}

func (h *TraderController) CreateTrader(c *fiber.Ctx) error {
	var input struct {
		Name      string        `json:"name"`
		Password  string        `json:"password"`
		Inventory []models.Item `json:"inventory"`
	}
	if err := c.BodyParser(&input); err != nil {
		return badRequest(err)
	}

	trader, err := h.catalog.CreateTrader(c.UserContext(), services.CreateTraderInput{
		Name:      input.Name,
		Password:  input.Password,
		Inventory: input.Inventory,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(trader)
}

func (h *TraderController) GetTraders(c *fiber.Ctx) error {
	traders, err := h.catalog.ListTraders(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(traders)
}

func (h *TraderController) DeleteTrader(c *fiber.Ctx) error {
	var input struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&input); err != nil {
		return badRequest(err)
	}

	trader, err := h.catalog.DeleteTrader(c.UserContext(), input.Name, middleware.CurrentTrader(c))
	if err != nil {
		return err
	}
	return c.JSON(trader)
}
