// Package service holds checkout, the one operation that spans the basket
// store, the catalog and the order tables.
package service

import (
	"context"
	"errors"
	"fmt"

	"storefront/basket"
	"storefront/models"
	"storefront/notify"
	"storefront/repository"
	"storefront/specification"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var (
	ErrEmptyBasket     = errors.New("basket is empty")
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

type OrderService struct {
	db      *gorm.DB
	baskets basket.Store
	events  notify.Publisher
	log     zerolog.Logger
}

func NewOrderService(db *gorm.DB, baskets basket.Store, events notify.Publisher, log zerolog.Logger) *OrderService {
	if events == nil {
		events = notify.Nop{}
	}
	return &OrderService{db: db, baskets: baskets, events: events, log: log}
}

// CreateOrder turns the buyer's basket into an order. Item prices and names
// are taken from the catalog, not from the basket. The basket is removed
// once the order is stored.
func (s *OrderService) CreateOrder(ctx context.Context, buyer *models.User, basketID string) (*models.Order, error) {
	cart, err := s.baskets.Get(ctx, basketID)
	if err != nil {
		return nil, fmt.Errorf("load basket: %w", err)
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyBasket
	}

	uow := repository.NewUnitOfWork(s.db)
	products := repository.For[models.Product](uow)

	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: product %d", ErrInvalidQuantity, item.ID)
		}
		product, err := products.GetByID(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("%w: %d", ErrProductNotFound, item.ID)
		}
		items = append(items, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			PictureURL:  product.PictureURL,
			Price:       product.Price,
			Quantity:    item.Quantity,
		})
	}

	order := models.NewOrder(buyer.ID, buyer.Email, items)
	repository.For[models.Order](uow).Add(order)
	if _, err := uow.Complete(ctx); err != nil {
		return nil, err
	}

	if err := s.baskets.Delete(ctx, basketID); err != nil {
		s.log.Warn().Err(err).Str("basket_id", basketID).Uint("order_id", order.ID).Msg("failed to delete basket after checkout")
	}
	if err := s.events.PublishOrderCreated(ctx, order); err != nil {
		s.log.Warn().Err(err).Uint("order_id", order.ID).Msg("failed to publish order created")
	}

	s.log.Info().
		Uint("order_id", order.ID).
		Str("buyer", order.BuyerEmail).
		Str("subtotal", order.Subtotal.String()).
		Msg("order created")
	return order, nil
}

// OrdersForUser lists the user's orders, newest first.
func (s *OrderService) OrdersForUser(ctx context.Context, userID uint) ([]models.Order, error) {
	orders := repository.For[models.Order](repository.NewUnitOfWork(s.db))
	return orders.ListWithSpec(ctx, specification.OrdersWithItemsForUser(userID))
}

// OrderForUser returns nil when the order does not exist or belongs to
// someone else.
func (s *OrderService) OrderForUser(ctx context.Context, id, userID uint) (*models.Order, error) {
	orders := repository.For[models.Order](repository.NewUnitOfWork(s.db))
	return orders.GetEntityWithSpec(ctx, specification.OrderWithItemsForUser(id, userID))
}
