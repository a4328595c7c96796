package config

import (
	"errors"

	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/models"
	"gorm.io/gorm"
)

// MigrateModels runs the schema migration for every engine model. Shared
// with tests, which run it against an in-memory database.
func MigrateModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Admin{},
		&models.DeliveryAgent{},
		&models.Address{},
		&models.Product{},
		&models.ProductVariant{},
		&models.CartItem{},
		&models.Coupon{},
		&models.CouponUsage{},
		&models.UserActiveCoupon{},
		&models.LoyaltyAccount{},
		&models.LoyaltyTransaction{},
		&models.Wallet{},
		&models.WalletTransaction{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
		&models.StoreSettings{},
	)
}

// EnsureStoreSettings creates the singleton settings row if it does not
// exist yet, seeding the pricing knobs from the environment.
func EnsureStoreSettings(db *gorm.DB) error {
	var settings models.StoreSettings
	err := db.First(&settings).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	settings = models.StoreSettings{
		DeliveryCharge:        envFloat("DELIVERY_CHARGE", 40),
		FreeDeliveryThreshold: envFloat("FREE_DELIVERY_THRESHOLD", 499),
		PointValue:            envFloat("POINT_VALUE", 0.25),
		MinPointsRedemption:   envInt("MIN_POINTS_REDEMPTION", 100),
		PointsEarnRate:        envFloat("POINTS_EARN_RATE", 0.02),
		ConversionRate:        envFloat("POINTS_CONVERSION_RATE", 0.1),
	}
	return db.Create(&settings).Error
}

// GetStoreSettings loads the singleton settings row.
func GetStoreSettings(db *gorm.DB) (*models.StoreSettings, error) {
	var settings models.StoreSettings
	if err := db.First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}
