package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices go over the wire as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:100;not null;index" json:"name" validate:"required,max=100"`
	Description string          `gorm:"type:text" json:"description" validate:"required"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"price" validate:"gte=0"`
	PictureURL  string          `gorm:"not null" json:"pictureUrl" validate:"required"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
	BrandID     uint            `gorm:"not null;index" json:"brandId" validate:"required"`
	CategoryID  uint            `gorm:"not null;index" json:"categoryId" validate:"required"`
	Brand       *Brand          `gorm:"foreignKey:BrandID;constraint:OnDelete:RESTRICT" json:"brand,omitempty" validate:"-"`
	Category    *Category       `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"category,omitempty" validate:"-"`
}
