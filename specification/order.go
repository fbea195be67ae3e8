package specification

import (
	"strings"

	"storefront/models"
)

func OrdersWithItemsForUser(userID uint) *Base[models.Order] {
	return New[models.Order]().
		Where("orders.user_id = ?", userID).
		Include("OrderItems").
		OrderByDescending("order_date").
		OrderByDescending("id")
}

func OrderWithItemsForUser(id, userID uint) *Base[models.Order] {
	return New[models.Order]().
		Where("orders.id = ?", id).
		Where("orders.user_id = ?", userID).
		Include("OrderItems")
}

func UserByEmail(email string) *Base[models.User] {
	return New[models.User]().
		Where("LOWER(users.email) = ?", strings.ToLower(strings.TrimSpace(email)))
}
