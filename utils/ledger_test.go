package utils

import (
	"fmt"
	"testing"

	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/config"
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Per-test in-memory database to avoid cross-test interference
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.MigrateModels(db))
	config.DB = db
	return db
}

func TestCreditWalletAppendsTransaction(t *testing.T) {
	db := setupTestDB(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := CreditWallet(tx, 1, 150, "Top up", models.WalletRefTopup, nil)
		return err
	})
	require.NoError(t, err)

	wallet, err := GetOrCreateWallet(1)
	require.NoError(t, err)
	require.Equal(t, 150.0, wallet.Balance)

	var txns []models.WalletTransaction
	require.NoError(t, db.Where("user_id = ?", 1).Find(&txns).Error)
	require.Len(t, txns, 1)
	require.Equal(t, models.TransactionTypeCredit, txns[0].Type)
	require.Equal(t, 150.0, txns[0].Amount)
	require.Equal(t, 150.0, txns[0].BalanceAfter)
}

func TestDebitWalletInsufficientBalance(t *testing.T) {
	db := setupTestDB(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := CreditWallet(tx, 1, 50, "Top up", models.WalletRefTopup, nil)
		return err
	})
	require.NoError(t, err)

	// debit larger than balance must fail without touching anything
	err = db.Transaction(func(tx *gorm.DB) error {
		_, err := DebitWallet(tx, 1, 100, "Order payment", models.WalletRefOrder, nil)
		return err
	})
	require.ErrorIs(t, err, ErrInsufficientBalance)

	wallet, err := GetOrCreateWallet(1)
	require.NoError(t, err)
	require.Equal(t, 50.0, wallet.Balance)

	var count int64
	require.NoError(t, db.Model(&models.WalletTransaction{}).
		Where("user_id = ? AND type = ?", 1, models.TransactionTypeDebit).
		Count(&count).Error)
	require.Zero(t, count)
}

func TestWalletBalanceMatchesTransactionReplay(t *testing.T) {
	db := setupTestDB(t)

	ops := []struct {
		credit bool
		amount float64
	}{
		{true, 500}, {false, 120}, {true, 75.50}, {false, 300}, {true, 10},
	}
	for _, op := range ops {
		err := db.Transaction(func(tx *gorm.DB) error {
			if op.credit {
				_, err := CreditWallet(tx, 7, op.amount, "test", models.WalletRefAdminAdjustment, nil)
				return err
			}
			_, err := DebitWallet(tx, 7, op.amount, "test", models.WalletRefAdminAdjustment, nil)
			return err
		})
		require.NoError(t, err)
	}

	wallet, err := GetOrCreateWallet(7)
	require.NoError(t, err)

	var txns []models.WalletTransaction
	require.NoError(t, db.Where("user_id = ?", 7).Order("id").Find(&txns).Error)

	var replayed float64
	for _, txn := range txns {
		if txn.Type == models.TransactionTypeCredit {
			replayed += txn.Amount
		} else {
			replayed -= txn.Amount
		}
	}
	require.Equal(t, wallet.Balance, RoundMoney(replayed))
	require.Equal(t, wallet.Balance, txns[len(txns)-1].BalanceAfter)
}

func TestRedeemPointsInsufficientBalance(t *testing.T) {
	db := setupTestDB(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := EarnPoints(tx, 3, 100, models.LoyaltyTxnEarned, "Order reward", nil)
		return err
	})
	require.NoError(t, err)

	err = db.Transaction(func(tx *gorm.DB) error {
		_, err := RedeemPoints(tx, 3, 200, models.LoyaltyTxnRedeemed, "Checkout", nil)
		return err
	})
	require.ErrorIs(t, err, ErrInsufficientPoints)

	account, err := GetOrCreateLoyaltyAccount(3)
	require.NoError(t, err)
	require.Equal(t, 100, account.TotalPoints)
	require.Equal(t, 100, account.LifetimeEarned)
	require.Equal(t, 0, account.LifetimeSpent)
}

func TestLoyaltyInvariantHeldAcrossMutations(t *testing.T) {
	db := setupTestDB(t)

	steps := []struct {
		earn   bool
		points int
	}{
		{true, 1200}, {false, 400}, {true, 50}, {false, 850},
	}
	for _, s := range steps {
		err := db.Transaction(func(tx *gorm.DB) error {
			if s.earn {
				_, err := EarnPoints(tx, 9, s.points, models.LoyaltyTxnEarned, "test", nil)
				return err
			}
			_, err := RedeemPoints(tx, 9, s.points, models.LoyaltyTxnRedeemed, "test", nil)
			return err
		})
		require.NoError(t, err)
	}

	account, err := GetOrCreateLoyaltyAccount(9)
	require.NoError(t, err)
	require.Equal(t, account.LifetimeEarned-account.LifetimeSpent, account.TotalPoints)
	require.GreaterOrEqual(t, account.TotalPoints, 0)
	// 1250 lifetime earned lands in silver
	require.Equal(t, models.LoyaltyTierSilver, account.Tier)
}

func TestConvertPointsToWallet(t *testing.T) {
	db := setupTestDB(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := EarnPoints(tx, 5, 500, models.LoyaltyTxnEarned, "Order reward", nil)
		return err
	})
	require.NoError(t, err)

	amount, err := ConvertPointsToWallet(db, 5, 200, 0.1)
	require.NoError(t, err)
	require.Equal(t, 20.0, amount)

	account, err := GetOrCreateLoyaltyAccount(5)
	require.NoError(t, err)
	require.Equal(t, 300, account.TotalPoints)

	wallet, err := GetOrCreateWallet(5)
	require.NoError(t, err)
	require.Equal(t, 20.0, wallet.Balance)

	var loyaltyTxns []models.LoyaltyTransaction
	require.NoError(t, db.Where("user_id = ? AND type = ?", 5, models.LoyaltyTxnConverted).Find(&loyaltyTxns).Error)
	require.Len(t, loyaltyTxns, 1)
	require.Equal(t, -200, loyaltyTxns[0].Points)

	var walletTxns []models.WalletTransaction
	require.NoError(t, db.Where("user_id = ? AND reference = ?", 5, models.WalletRefPointsConversion).Find(&walletTxns).Error)
	require.Len(t, walletTxns, 1)
	require.Equal(t, 20.0, walletTxns[0].Amount)
}

func TestConvertPointsRollsBackWhenShort(t *testing.T) {
	db := setupTestDB(t)

	_, err := ConvertPointsToWallet(db, 6, 100, 0.1)
	require.ErrorIs(t, err, ErrInsufficientPoints)

	// neither half committed
	var loyaltyCount, walletCount int64
	require.NoError(t, db.Model(&models.LoyaltyTransaction{}).Where("user_id = ?", 6).Count(&loyaltyCount).Error)
	require.NoError(t, db.Model(&models.WalletTransaction{}).Where("user_id = ?", 6).Count(&walletCount).Error)
	require.Zero(t, loyaltyCount)
	require.Zero(t, walletCount)

	var wallet models.Wallet
	err = db.Where("user_id = ?", 6).First(&wallet).Error
	if err == nil {
		require.Equal(t, 0.0, wallet.Balance)
	}
}
