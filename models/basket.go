package models

import "github.com/shopspring/decimal"

// Basket is never stored in the relational database; it lives as a JSON
// blob in the basket store, keyed by a client-generated id.
type Basket struct {
	ID    string       `json:"id" validate:"required"`
	Items []BasketItem `json:"items" validate:"dive"`
}

type BasketItem struct {
	ID          uint            `json:"id" validate:"required"`
	ProductName string          `json:"productName" validate:"required"`
	Price       decimal.Decimal `json:"price" validate:"gt=0"`
	Quantity    int             `json:"quantity" validate:"min=1"`
	PictureURL  string          `json:"pictureUrl"`
	Brand       string          `json:"brand"`
	Category    string          `json:"category"`
}

func NewBasket(id string) *Basket {
	return &Basket{ID: id, Items: []BasketItem{}}
}

func (b *Basket) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range b.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
