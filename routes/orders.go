package routes

import (
	"errors"

	"storefront/apierror"
	"storefront/auth"
	"storefront/service"

	"github.com/gofiber/fiber/v2"
)

// POST /api/orders
func (h *handler) createOrder(c *fiber.Ctx) error {
	form := new(OrderForm)
	if err := h.parseBody(c, form); err != nil {
		return err
	}

	order, err := h.Orders.CreateOrder(c.UserContext(), auth.CurrentUser(c), form.BasketID)
	switch {
	case errors.Is(err, service.ErrEmptyBasket),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrInvalidQuantity):
		return apierror.Validation("Problem creating order: " + err.Error())
	case err != nil:
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toOrder(h.Config.ApiURL, order))
}

// GET /api/orders
func (h *handler) getOrders(c *fiber.Ctx) error {
	orders, err := h.Orders.OrdersForUser(c.UserContext(), auth.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	data := make([]OrderToReturn, 0, len(orders))
	for i := range orders {
		data = append(data, toOrder(h.Config.ApiURL, &orders[i]))
	}
	return c.JSON(data)
}

// GET /api/orders/:id
func (h *handler) getOrder(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	order, err := h.Orders.OrderForUser(c.UserContext(), id, auth.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	if order == nil {
		return apierror.NotFound("")
	}
	return c.JSON(toOrder(h.Config.ApiURL, order))
}
