package models

import (
	"gorm.io/gorm"
)

// Product represents a catalog item. The catalog itself is managed
// elsewhere; the engine only needs products as a price source and as
// references for order line snapshots.
type Product struct {
	gorm.Model
	Name     string           `json:"name"`
	Price    float64          `json:"price"`
	Unit     string           `json:"unit"`
	IsActive bool             `json:"is_active" gorm:"default:true"`
	Variants []ProductVariant `json:"variants,omitempty" gorm:"foreignKey:ProductID"`
}

// ProductVariant is a pack-size variation of a product with its own price.
type ProductVariant struct {
	gorm.Model
	ProductID uint    `json:"product_id" gorm:"index;not null"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	IsActive  bool    `json:"is_active" gorm:"default:true"`
}
