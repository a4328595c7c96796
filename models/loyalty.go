package models

import (
	"time"
)

// Loyalty tiers, derived from lifetime earned points.
const (
	LoyaltyTierBronze = "bronze"
	LoyaltyTierSilver = "silver"
	LoyaltyTierGold   = "gold"
)

// LoyaltyTransaction types
const (
	LoyaltyTxnEarned           = "earned"
	LoyaltyTxnRedeemed         = "redeemed"
	LoyaltyTxnConverted        = "converted"
	LoyaltyTxnAdminAdjustment  = "admin_adjustment"
	LoyaltyTxnOrderCancelation = "order_cancellation"
)

// LoyaltyAccount holds a user's spendable point balance.
// Invariant: TotalPoints = LifetimeEarned - LifetimeSpent, never negative.
type LoyaltyAccount struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `json:"user_id" gorm:"uniqueIndex"`
	TotalPoints    int       `json:"total_points" gorm:"default:0"`
	LifetimeEarned int       `json:"lifetime_earned" gorm:"default:0"`
	LifetimeSpent  int       `json:"lifetime_spent" gorm:"default:0"`
	Tier           string    `json:"tier" gorm:"default:bronze"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// LoyaltyTransaction mirrors every point balance mutation. Points are
// signed: positive for earned, negative for redeemed.
type LoyaltyTransaction struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `json:"user_id" gorm:"index;not null"`
	Points       int       `json:"points"`
	Type         string    `json:"type"`
	OrderID      *uint     `json:"order_id" gorm:"index"`
	Description  string    `json:"description"`
	BalanceAfter int       `json:"balance_after"`
	CreatedAt    time.Time `json:"created_at"`
}

// TierForLifetimeEarned returns the tier a lifetime earned total lands in.
func TierForLifetimeEarned(earned int) string {
	switch {
	case earned >= 5000:
		return LoyaltyTierGold
	case earned >= 1000:
		return LoyaltyTierSilver
	default:
		return LoyaltyTierBronze
	}
}
