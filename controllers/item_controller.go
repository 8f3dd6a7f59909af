package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/feira-troca/backend/middleware"
	"github.com/feira-troca/backend/services"
)

type ItemController struct {
	catalog *services.CatalogService
}

func NewItemController(catalog *services.CatalogService) *ItemController {
	return &ItemController{catalog: catalog}
}

func (h *ItemController) CreateItem(c *fiber.Ctx) error {
	var input struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		ImgURL      string `json:"imgUrl"`
		Owner       string `json:"owner"`
	}
	if err := c.BodyParser(&input); err != nil {
		return badRequest(err)
	}

	item, err := h.catalog.CreateItem(c.UserContext(), services.CreateItemInput{
		Name:        input.Name,
		Description: input.Description,
		ImgURL:      input.ImgURL,
		Owner:       input.Owner,
		Actor:       middleware.CurrentTrader(c),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *ItemController) GetItems(c *fiber.Ctx) error {
	items, err := h.catalog.ListItems(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(items)
}

// GetItemsByTrader filters by the ?owner= query parameter.
func (h *ItemController) GetItemsByTrader(c *fiber.Ctx) error {
	items, err := h.catalog.ListItemsByOwner(c.UserContext(), c.Query("owner"))
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (h *ItemController) DeleteItem(c *fiber.Ctx) error {
	var input struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&input); err != nil {
		return badRequest(err)
	}

	item, err := h.catalog.DeleteItem(c.UserContext(), input.Name, middleware.CurrentTrader(c))
	if err != nil {
		return err
	}
	return c.JSON(item)
}

func (h *ItemController) EditItem(c *fiber.Ctx) error {
	var input struct {
		Name     string `json:"name"`
		NewOwner string `json:"newowner"`
	}
	if err := c.BodyParser(&input); err != nil {
		return badRequest(err)
	}

	item, err := h.catalog.ReassignItemOwner(c.UserContext(), input.Name, input.NewOwner, middleware.CurrentTrader(c))
	if err != nil {
		return err
	}
	return c.JSON(item)
}
