package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/feira-troca/backend/middleware"
	"github.com/feira-troca/backend/services"
)

type TradeController struct {
	trades *services.TradeService
}

func NewTradeController(trades *services.TradeService) *TradeController {
	return &TradeController{trades: trades}
}

func (h *TradeController) ProposeTrade(c *fiber.Ctx) error {
	var input struct {
		ProposingItem *services.ItemRef `json:"proposingItem"`
		ReceivingItem *services.ItemRef `json:"receivingItem"`
	}
	if err := c.BodyParser(&input); err != nil {
		return badRequest(err)
	}

	proposal, err := h.trades.ProposeTrade(c.UserContext(), services.ProposeTradeInput{
		ProposingItem: input.ProposingItem,
		ReceivingItem: input.ReceivingItem,
		Actor:         middleware.CurrentTrader(c),
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"message":  "Proposta de troca criada com sucesso!",
		"proposal": proposal,
	})
}

func (h *TradeController) GetProposals(c *fiber.Ctx) error {
	proposals, err := h.trades.ListPendingProposals(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(proposals)
}

func (h *TradeController) AcceptTrade(c *fiber.Ctx) error {
	var input struct {
		TradeID string `json:"tradeId"`
	}
	if err := c.BodyParser(&input); err != nil {
		return badRequest(err)
	}

	trade, err := h.trades.AcceptTrade(c.UserContext(), input.TradeID, middleware.CurrentTrader(c))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Troca realizada com sucesso!",
		"trade":   trade,
	})
}
