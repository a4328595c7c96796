package models

import (
	"time"
)

// StoreSettings is a singleton row of store-level pricing knobs. Seeded
// from the environment on first boot, editable by admin after that.
type StoreSettings struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	DeliveryCharge        float64   `json:"delivery_charge" gorm:"default:40"`
	FreeDeliveryThreshold float64   `json:"free_delivery_threshold" gorm:"default:499"`
	PointValue            float64   `json:"point_value" gorm:"default:0.25"`
	MinPointsRedemption   int       `json:"min_points_redemption" gorm:"default:100"`
	PointsEarnRate        float64   `json:"points_earn_rate" gorm:"default:0.02"`
	ConversionRate        float64   `json:"conversion_rate" gorm:"default:0.1"`
	UpdatedAt             time.Time `json:"updated_at"`
}
