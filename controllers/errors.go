package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/feira-troca/backend/services"
)

// ErrorHandler renders every failed request as {"success": false, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code, message := statusOf(err)
	if code >= fiber.StatusInternalServerError {
		log.Errorf("❌ %s %s: %v", c.Method(), c.Path(), err)
	} else {
		log.Warnf("%s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func statusOf(err error) (int, string) {
	var (
		ve *services.ValidationError
		ue *services.UnauthorizedError
		fe *services.ForbiddenError
		ne *services.NotFoundError
		ce *services.ConflictError
		pe *services.PersistenceError
		fb *fiber.Error
	)
	switch {
	case errors.As(err, &ve):
		return fiber.StatusBadRequest, ve.Message
	case errors.As(err, &ue):
		return fiber.StatusUnauthorized, ue.Message
	case errors.As(err, &fe):
		return fiber.StatusForbidden, fe.Message
	case errors.As(err, &ne):
		return fiber.StatusNotFound, ne.Message
	case errors.As(err, &ce):
		return fiber.StatusConflict, ce.Message
	case errors.As(err, &pe):
		return fiber.StatusInternalServerError, pe.Message
	case errors.As(err, &fb):
		return fb.Code, fb.Message
	}
	return fiber.StatusInternalServerError, "internal server error"
}

func badRequest(err error) error {
	log.Debugf("invalid request body: %v", err)
	return fiber.NewError(fiber.StatusBadRequest, "Invalid input")
}
