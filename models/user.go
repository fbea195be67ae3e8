package models

import (
	"slices"
	"time"
)

const (
	RoleAdmin    = "Admin"
	RoleCustomer = "Member"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	DisplayName  string    `gorm:"size:100;not null" json:"displayName"`
	Email        string    `gorm:"size:256;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Roles        []string  `gorm:"type:text;serializer:json" json:"roles"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
	Address      *Address  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"address,omitempty"`
	Orders       []Order   `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

type Address struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	UserID    uint   `gorm:"not null;uniqueIndex" json:"-"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Street    string `json:"street" validate:"required"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	ZipCode   string `json:"zipCode" validate:"required"`
}
