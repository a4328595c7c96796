package models

import (
	"time"
)

// CartItem is a line in a user's cart. Price is snapshotted when the line
// is added so later catalog edits do not change what the shopper saw.
type CartItem struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	UserID    uint            `json:"user_id" gorm:"index;not null"`
	ProductID uint            `json:"product_id" gorm:"not null"`
	Product   Product         `json:"product" gorm:"foreignKey:ProductID"`
	VariantID *uint           `json:"variant_id"`
	Variant   *ProductVariant `json:"variant,omitempty" gorm:"foreignKey:VariantID"`
	Price     float64         `json:"price"`
	Quantity  int             `json:"quantity"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Subtotal returns the line total at the snapshotted price.
func (c *CartItem) Subtotal() float64 {
	return c.Price * float64(c.Quantity)
}
