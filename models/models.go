package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a customer in the system
type User struct {
	gorm.Model
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	IsBlocked bool      `json:"is_blocked"`
	LastLogin time.Time `json:"last_login"`
	Wallet    Wallet    `json:"wallet,omitempty" gorm:"foreignKey:UserID"`

	Addresses []Address `json:"addresses" gorm:"foreignKey:UserID"`
}

// Admin represents a back-office staff account
type Admin struct {
	gorm.Model
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	LastLogin time.Time `json:"last_login"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
}

// DeliveryAgent represents a delivery partner who fulfils orders
type DeliveryAgent struct {
	gorm.Model
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	IsActive bool   `json:"is_active" gorm:"default:true"`
}
