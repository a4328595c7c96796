package utils

import (
	"errors"
	"fmt"

	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/config"
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/models"
	"gorm.io/gorm"
)

// ErrInsufficientPoints is returned when a redemption exceeds the
// committed point balance. Nothing is mutated in that case.
var ErrInsufficientPoints = errors.New("insufficient loyalty points")

// GetOrCreateLoyaltyAccount retrieves or lazily creates a loyalty account
func GetOrCreateLoyaltyAccount(userID uint) (*models.LoyaltyAccount, error) {
	return getOrCreateLoyaltyAccountTx(config.DB, userID)
}

func getOrCreateLoyaltyAccountTx(tx *gorm.DB, userID uint) (*models.LoyaltyAccount, error) {
	var account models.LoyaltyAccount
	if err := tx.Where("user_id = ?", userID).First(&account).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		account = models.LoyaltyAccount{UserID: userID, Tier: models.LoyaltyTierBronze}
		if err := tx.Create(&account).Error; err != nil {
			return nil, err
		}
	}
	return &account, nil
}

// EarnPoints credits points to the user's account and appends the signed
// transaction row. Must run inside tx.
func EarnPoints(tx *gorm.DB, userID uint, points int, txnType, description string, orderID *uint) (*models.LoyaltyTransaction, error) {
	if points <= 0 {
		return nil, errors.New("earned points must be positive")
	}

	account, err := getOrCreateLoyaltyAccountTx(tx, userID)
	if err != nil {
		return nil, err
	}
	if err := LockForUpdate(tx).First(account, account.ID).Error; err != nil {
		return nil, err
	}

	account.TotalPoints += points
	account.LifetimeEarned += points
	account.Tier = models.TierForLifetimeEarned(account.LifetimeEarned)
	if err := tx.Save(account).Error; err != nil {
		return nil, err
	}

	txn := models.LoyaltyTransaction{
		UserID:       userID,
		Points:       points,
		Type:         txnType,
		OrderID:      orderID,
		Description:  description,
		BalanceAfter: account.TotalPoints,
	}
	if err := tx.Create(&txn).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

// RedeemPoints debits points from the user's account and appends a
// negative transaction row. The balance check runs against the locked row;
// a short balance fails the redemption with no mutation.
func RedeemPoints(tx *gorm.DB, userID uint, points int, txnType, description string, orderID *uint) (*models.LoyaltyTransaction, error) {
	if points <= 0 {
		return nil, errors.New("redeemed points must be positive")
	}

	account, err := getOrCreateLoyaltyAccountTx(tx, userID)
	if err != nil {
		return nil, err
	}
	if err := LockForUpdate(tx).First(account, account.ID).Error; err != nil {
		return nil, err
	}

	if account.TotalPoints < points {
		return nil, ErrInsufficientPoints
	}

	account.TotalPoints -= points
	account.LifetimeSpent += points
	if err := tx.Save(account).Error; err != nil {
		return nil, err
	}

	txn := models.LoyaltyTransaction{
		UserID:       userID,
		Points:       -points,
		Type:         txnType,
		OrderID:      orderID,
		Description:  description,
		BalanceAfter: account.TotalPoints,
	}
	if err := tx.Create(&txn).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

// ReturnPoints gives previously redeemed points back to the account, for
// example when the order they were spent on is cancelled. Lifetime spend
// is unwound along with the balance.
func ReturnPoints(tx *gorm.DB, userID uint, points int, description string, orderID *uint) (*models.LoyaltyTransaction, error) {
	if points <= 0 {
		return nil, errors.New("returned points must be positive")
	}

	account, err := getOrCreateLoyaltyAccountTx(tx, userID)
	if err != nil {
		return nil, err
	}
	if err := LockForUpdate(tx).First(account, account.ID).Error; err != nil {
		return nil, err
	}

	account.TotalPoints += points
	account.LifetimeSpent -= points
	if account.LifetimeSpent < 0 {
		account.LifetimeSpent = 0
	}
	if err := tx.Save(account).Error; err != nil {
		return nil, err
	}

	txn := models.LoyaltyTransaction{
		UserID:       userID,
		Points:       points,
		Type:         models.LoyaltyTxnOrderCancelation,
		OrderID:      orderID,
		Description:  description,
		BalanceAfter: account.TotalPoints,
	}
	if err := tx.Create(&txn).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

// RevokePoints claws back points earned on an order that was later
// cancelled. If the user has already spent some of them the deduction is
// capped at the current balance, never driving it negative. Returns the
// number of points actually revoked.
func RevokePoints(tx *gorm.DB, userID uint, points int, description string, orderID *uint) (int, error) {
	if points <= 0 {
		return 0, errors.New("revoked points must be positive")
	}

	account, err := getOrCreateLoyaltyAccountTx(tx, userID)
	if err != nil {
		return 0, err
	}
	if err := LockForUpdate(tx).First(account, account.ID).Error; err != nil {
		return 0, err
	}

	revoked := points
	if revoked > account.TotalPoints {
		revoked = account.TotalPoints
	}
	if revoked == 0 {
		return 0, nil
	}

	account.TotalPoints -= revoked
	account.LifetimeEarned -= revoked
	if account.LifetimeEarned < 0 {
		account.LifetimeEarned = 0
	}
	account.Tier = models.TierForLifetimeEarned(account.LifetimeEarned)
	if err := tx.Save(account).Error; err != nil {
		return 0, err
	}

	txn := models.LoyaltyTransaction{
		UserID:       userID,
		Points:       -revoked,
		Type:         models.LoyaltyTxnOrderCancelation,
		OrderID:      orderID,
		Description:  description,
		BalanceAfter: account.TotalPoints,
	}
	if err := tx.Create(&txn).Error; err != nil {
		return 0, err
	}
	return revoked, nil
}

// ConvertPointsToWallet debits loyalty points and credits the wallet with
// points * rate in one transaction. Both legs commit together or not at
// all.
func ConvertPointsToWallet(db *gorm.DB, userID uint, points int, rate float64) (float64, error) {
	if points <= 0 {
		return 0, errors.New("points must be positive")
	}
	if rate <= 0 {
		return 0, errors.New("conversion rate must be positive")
	}

	amount := RoundMoney(float64(points) * rate)
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := RedeemPoints(tx, userID, points, models.LoyaltyTxnConverted,
			fmt.Sprintf("Converted %d points to wallet", points), nil); err != nil {
			return err
		}
		if _, err := CreditWallet(tx, userID, amount,
			fmt.Sprintf("Conversion of %d loyalty points", points),
			models.WalletRefPointsConversion, nil); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return amount, nil
}
