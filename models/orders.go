package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is written once at checkout and never updated afterwards.
type Order struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	BuyerEmail string          `gorm:"size:256;not null" json:"buyerEmail"`
	UserID     uint            `gorm:"not null;index" json:"userId"`
	User       *User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	OrderDate  time.Time       `gorm:"not null;index" json:"orderDate"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"subtotal"`
	OrderItems []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"orderItems"`
}

// OrderItem holds a copy of the product as it was when the order was placed.
type OrderItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderID     uint            `gorm:"not null;index" json:"orderId"`
	ProductID   uint            `gorm:"not null" json:"productId"`
	ProductName string          `gorm:"size:100;not null" json:"productName"`
	PictureURL  string          `json:"pictureUrl"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"price"`
	Quantity    int             `gorm:"not null" json:"quantity" validate:"required,min=1"`
}

// NewOrder builds an order and fixes its subtotal from the given items.
func NewOrder(userID uint, buyerEmail string, items []OrderItem) *Order {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return &Order{
		BuyerEmail: buyerEmail,
		UserID:     userID,
		OrderDate:  time.Now().UTC(),
		Subtotal:   subtotal,
		OrderItems: items,
	}
}

func (o *Order) Total() decimal.Decimal {
	return o.Subtotal
}
