package routes

import (
	"storefront/apierror"
	"storefront/models"

	"github.com/gofiber/fiber/v2"
)

func basketID(c *fiber.Ctx) (string, error) {
	id := c.Query("id")
	if id == "" {
		return "", apierror.Validation("id is required")
	}
	return id, nil
}

// GET /api/basket?id=
func (h *handler) getBasket(c *fiber.Ctx) error {
	id, err := basketID(c)
	if err != nil {
		return err
	}
	basket, err := h.Baskets.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(basket)
}

// POST /api/basket replaces the whole basket.
func (h *handler) updateBasket(c *fiber.Ctx) error {
	basket := new(models.Basket)
	if err := h.parseBody(c, basket); err != nil {
		return err
	}
	if basket.Items == nil {
		basket.Items = []models.BasketItem{}
	}

	stored, err := h.Baskets.Update(c.UserContext(), basket)
	if err != nil {
		return err
	}
	return c.JSON(stored)
}

// DELETE /api/basket?id=
func (h *handler) deleteBasket(c *fiber.Ctx) error {
	id, err := basketID(c)
	if err != nil {
		return err
	}
	if err := h.Baskets.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
