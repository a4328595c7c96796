package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon discount kinds
const (
	CouponTypePercent = "percent"
	CouponTypeFlat    = "flat"
)

type Coupon struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	// Codes are normalized to upper case before storage, so the plain
	// unique index enforces case-insensitive uniqueness.
	Code          string         `gorm:"uniqueIndex:idx_coupons_code" json:"code"`
	Type          string         `json:"type"` // "flat" or "percent"
	Value         float64        `json:"value"`
	MinOrderValue float64        `json:"min_order_value"`
	MaxDiscount   float64        `json:"max_discount"` // percent type only, 0 = no cap
	ValidFrom     time.Time      `json:"valid_from"`
	ValidUntil    time.Time      `json:"valid_until"`
	UsageLimit    int            `json:"usage_limit"`    // 0 = unlimited
	PerUserLimit  int            `json:"per_user_limit"` // 0 = unlimited
	UsedCount     int            `json:"used_count"`
	Active        bool           `json:"active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// CouponUsage is an append-only audit row, one per successful redemption.
// Per-user limits are enforced by counting these rows.
type CouponUsage struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CouponID       uint      `json:"coupon_id" gorm:"index;not null"`
	UserID         uint      `json:"user_id" gorm:"index;not null"`
	OrderID        uint      `json:"order_id" gorm:"not null"`
	DiscountAmount float64   `json:"discount_amount"`
	CreatedAt      time.Time `json:"created_at"`
}

// UserActiveCoupon tracks the coupon currently applied to a user's cart
type UserActiveCoupon struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex"` // one active coupon per user
	CouponID  uint      `json:"coupon_id"`
	Code      string    `json:"code"`
	AppliedAt time.Time `json:"applied_at"`
}
