package utils

import (
	"errors"

	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/config"
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/models"
	"gorm.io/gorm"
)

// ErrInsufficientBalance is returned when a debit exceeds the committed
// wallet balance. Nothing is mutated in that case.
var ErrInsufficientBalance = errors.New("insufficient wallet balance")

// GetOrCreateWallet retrieves or lazily creates a wallet for a user
func GetOrCreateWallet(userID uint) (*models.Wallet, error) {
	return getOrCreateWalletTx(config.DB, userID)
}

func getOrCreateWalletTx(tx *gorm.DB, userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := tx.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		wallet = models.Wallet{UserID: userID, Balance: 0}
		if err := tx.Create(&wallet).Error; err != nil {
			return nil, err
		}
	}
	return &wallet, nil
}

// CreditWallet adds amount to the user's wallet and appends the matching
// transaction row. Must be called inside tx; both writes commit together.
func CreditWallet(tx *gorm.DB, userID uint, amount float64, description, reference string, referenceID *uint) (*models.WalletTransaction, error) {
	if amount <= 0 {
		return nil, errors.New("credit amount must be positive")
	}

	wallet, err := getOrCreateWalletTx(tx, userID)
	if err != nil {
		return nil, err
	}
	if err := LockForUpdate(tx).First(wallet, wallet.ID).Error; err != nil {
		return nil, err
	}

	wallet.Balance = RoundMoney(wallet.Balance + amount)
	if err := tx.Save(wallet).Error; err != nil {
		return nil, err
	}

	txn := models.WalletTransaction{
		WalletID:     wallet.ID,
		UserID:       userID,
		Amount:       amount,
		Type:         models.TransactionTypeCredit,
		Description:  description,
		Reference:    reference,
		ReferenceID:  referenceID,
		BalanceAfter: wallet.Balance,
	}
	if err := tx.Create(&txn).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

// DebitWallet removes amount from the user's wallet and appends the
// matching transaction row. The balance check runs against the locked row,
// not a value read earlier; a short balance fails the debit with no
// mutation and no transaction row.
func DebitWallet(tx *gorm.DB, userID uint, amount float64, description, reference string, referenceID *uint) (*models.WalletTransaction, error) {
	if amount <= 0 {
		return nil, errors.New("debit amount must be positive")
	}

	wallet, err := getOrCreateWalletTx(tx, userID)
	if err != nil {
		return nil, err
	}
	if err := LockForUpdate(tx).First(wallet, wallet.ID).Error; err != nil {
		return nil, err
	}

	if wallet.Balance < amount {
		return nil, ErrInsufficientBalance
	}

	wallet.Balance = RoundMoney(wallet.Balance - amount)
	if err := tx.Save(wallet).Error; err != nil {
		return nil, err
	}

	txn := models.WalletTransaction{
		WalletID:     wallet.ID,
		UserID:       userID,
		Amount:       amount,
		Type:         models.TransactionTypeDebit,
		Description:  description,
		Reference:    reference,
		ReferenceID:  referenceID,
		BalanceAfter: wallet.Balance,
	}
	if err := tx.Create(&txn).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}
