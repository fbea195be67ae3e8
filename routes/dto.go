package routes

import (
	"strings"
	"time"

	"storefront/models"

	"github.com/shopspring/decimal"
)

// Pagination is the envelope of every paged list.
type Pagination[T any] struct {
	PageIndex int   `json:"index"`
	PageSize  int   `json:"pageSize"`
	Count     int64 `json:"count"`
	Data      []T   `json:"data"`
}

type ProductToReturn struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	PictureURL  string          `json:"pictureUrl"`
	BrandID     uint            `json:"brandId"`
	Brand       string          `json:"productBrand"`
	CategoryID  uint            `json:"categoryId"`
	Category    string          `json:"productType"`
}

// ProductForm is the body of product create and update.
type ProductForm struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Description string          `json:"description" validate:"required"`
	Price       decimal.Decimal `json:"price" validate:"gt=0"`
	PictureURL  string          `json:"pictureUrl" validate:"required"`
	BrandID     uint            `json:"brandId" validate:"required"`
	CategoryID  uint            `json:"categoryId" validate:"required"`
}

type NamedForm struct {
	Name string `json:"name" validate:"required,max=100"`
}

type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterForm struct {
	DisplayName string `json:"displayName" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,password"`
}

type UserToReturn struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Token       string `json:"token"`
}

type AddressForm struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Street    string `json:"street" validate:"required"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	ZipCode   string `json:"zipCode" validate:"required"`
}

type OrderForm struct {
	BasketID string `json:"basketId" validate:"required"`
}

type OrderItemToReturn struct {
	ProductID   uint            `json:"productId"`
	ProductName string          `json:"productName"`
	PictureURL  string          `json:"pictureUrl"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

type OrderToReturn struct {
	ID         uint                `json:"id"`
	BuyerEmail string              `json:"buyerEmail"`
	OrderDate  time.Time           `json:"orderDate"`
	OrderItems []OrderItemToReturn `json:"orderItems"`
	Subtotal   decimal.Decimal     `json:"subtotal"`
	Total      decimal.Decimal     `json:"total"`
}

// pictureURL prefixes relative picture paths with the public API url.
func pictureURL(apiURL, path string) string {
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return apiURL + strings.TrimPrefix(path, "/")
}

func toProduct(apiURL string, p *models.Product) ProductToReturn {
	dto := ProductToReturn{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		PictureURL:  pictureURL(apiURL, p.PictureURL),
		BrandID:     p.BrandID,
		CategoryID:  p.CategoryID,
	}
	if p.Brand != nil {
		dto.Brand = p.Brand.Name
	}
	if p.Category != nil {
		dto.Category = p.Category.Name
	}
	return dto
}

func toOrder(apiURL string, o *models.Order) OrderToReturn {
	items := make([]OrderItemToReturn, 0, len(o.OrderItems))
	for _, item := range o.OrderItems {
		items = append(items, OrderItemToReturn{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			PictureURL:  pictureURL(apiURL, item.PictureURL),
			Price:       item.Price,
			Quantity:    item.Quantity,
		})
	}
	return OrderToReturn{
		ID:         o.ID,
		BuyerEmail: o.BuyerEmail,
		OrderDate:  o.OrderDate,
		OrderItems: items,
		Subtotal:   o.Subtotal,
		Total:      o.Total(),
	}
}

func toAddress(a *models.Address) AddressForm {
	return AddressForm{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Street:    a.Street,
		City:      a.City,
		State:     a.State,
		ZipCode:   a.ZipCode,
	}
}
