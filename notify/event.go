// Package notify announces created orders to Kafka and to websocket
// listeners.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/models"

	"github.com/shopspring/decimal"
)

type OrderCreated struct {
	OrderID    uint            `json:"orderId"`
	BuyerEmail string          `json:"buyerEmail"`
	OrderDate  time.Time       `json:"orderDate"`
	ItemCount  int             `json:"itemCount"`
	Total      decimal.Decimal `json:"total"`
}

func NewOrderCreated(order *models.Order) OrderCreated {
	count := 0
	for _, item := range order.OrderItems {
		count += item.Quantity
	}
	return OrderCreated{
		OrderID:    order.ID,
		BuyerEmail: order.BuyerEmail,
		OrderDate:  order.OrderDate,
		ItemCount:  count,
		Total:      order.Total(),
	}
}

// Key is the message key, e.g. "order-created-12".
func (e OrderCreated) Key() string {
	return fmt.Sprintf("order-created-%d", e.OrderID)
}

func (e OrderCreated) Encode() ([]byte, error) {
	return json.Marshal(e)
}

type Publisher interface {
	PublishOrderCreated(ctx context.Context, order *models.Order) error
}

// Multi publishes to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) PublishOrderCreated(ctx context.Context, order *models.Order) error {
	var errs []error
	for _, p := range m {
		if err := p.PublishOrderCreated(ctx, order); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type Nop struct{}

func (Nop) PublishOrderCreated(context.Context, *models.Order) error { return nil }
