package models

import (
	"time"

	"gorm.io/gorm"
)

// Wallet represents a user's prepaid balance. Created lazily on first
// access; the balance is a cached projection of the transaction rows.
type Wallet struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `json:"user_id" gorm:"uniqueIndex"`
	Balance   float64        `json:"balance" gorm:"default:0"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// WalletTransaction mirrors every wallet balance mutation. Replaying the
// rows for a wallet must reproduce its current balance exactly.
type WalletTransaction struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	WalletID     uint      `json:"wallet_id" gorm:"index;not null"`
	Wallet       Wallet    `json:"-" gorm:"foreignKey:WalletID"`
	UserID       uint      `json:"user_id" gorm:"index;not null"`
	Amount       float64   `json:"amount"`
	Type         string    `json:"type"` // credit, debit
	Description  string    `json:"description"`
	Reference    string    `json:"reference"` // order, refund, topup, points_conversion, admin_adjustment
	ReferenceID  *uint     `json:"reference_id"`
	BalanceAfter float64   `json:"balance_after"`
	CreatedAt    time.Time `json:"created_at"`
}

// TransactionType constants
const (
	TransactionTypeCredit = "credit"
	TransactionTypeDebit  = "debit"
)

// WalletTransaction reference constants
const (
	WalletRefOrder            = "order"
	WalletRefRefund           = "refund"
	WalletRefTopup            = "topup"
	WalletRefPointsConversion = "points_conversion"
	WalletRefAdminAdjustment  = "admin_adjustment"
)
